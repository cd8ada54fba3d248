package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	authstore "registra/internal/auth/store"
	personservice "registra/internal/person/service"
	personstore "registra/internal/person/store"
)

func TestRunSeedsOnce(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	people := personservice.New(personstore.NewInMemory())
	accounts := authstore.NewInMemory()

	require.NoError(t, Run(ctx, people, accounts, logger))

	page, err := people.List(ctx, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 6, page.TotalRecords)

	withAddress := 0
	for _, v := range page.Items {
		if v.Address != "" {
			withAddress++
		}
	}
	require.Equal(t, 3, withAddress)

	account, err := accounts.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "alice", account.Username)
	require.True(t, accounts.VerifyPassword(ctx, account, "Alice123"))

	// A second run is a no-op.
	require.NoError(t, Run(ctx, people, accounts, logger))
	page, err = people.List(ctx, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 6, page.TotalRecords)
}
