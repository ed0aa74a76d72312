package server

// Response envelopes referenced by the swagger annotations.

type DataResponse struct {
	Data any `json:"data"`
}

type ListResponse struct {
	Data []any `json:"data"`
}
