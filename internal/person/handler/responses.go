package handler

import "registra/internal/person/service"

// Envelope is the uniform success body for person endpoints.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// PagedEnvelope extends Envelope with pagination metadata for list responses.
type PagedEnvelope struct {
	Success      bool           `json:"success"`
	Data         []service.View `json:"data"`
	PageNumber   int            `json:"pageNumber"`
	PageSize     int            `json:"pageSize"`
	TotalPages   int            `json:"totalPages"`
	TotalRecords int            `json:"totalRecords"`
}

func ok(data any, message string) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

func paged(page *service.Page) PagedEnvelope {
	items := page.Items
	if items == nil {
		items = []service.View{}
	}
	return PagedEnvelope{
		Success:      true,
		Data:         items,
		PageNumber:   page.PageNumber,
		PageSize:     page.PageSize,
		TotalPages:   page.TotalPages,
		TotalRecords: page.TotalRecords,
	}
}
