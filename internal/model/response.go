package model

// Response is the envelope returned to automation clients. Field names and
// order follow the published contract.
type Response struct {
	Date     string   `json:"Date"`
	Side     string   `json:"Side"`
	Advocate string   `json:"Advocate"`
	CourtURL string   `json:"Court_URL"`
	Output   []string `json:"Output"`
}

// NewResponse wraps an outcome with the request that produced it.
func NewResponse(req FetchRequest, outcome *Outcome) *Response {
	return &Response{
		Date:     req.Date,
		Side:     req.Side.String(),
		Advocate: req.AdvocateName,
		CourtURL: req.BaseURL,
		Output:   outcome.Output(),
	}
}

// Unavailable reports whether the response carries the unavailable sentinel.
func (r *Response) Unavailable() bool {
	return len(r.Output) == 1 && r.Output[0] == UnavailableMessage
}
