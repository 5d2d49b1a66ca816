package model

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the DDMMYYYY layout used by the court in document names.
const DateLayout = "02012006"

// datePattern is the shape check applied before calendar validation.
var datePattern = regexp.MustCompile(`^[0-9]{8}$`)

// FetchRequest is a validated lookup request.
// Use ParseFetchRequest to build one from raw strings.
type FetchRequest struct {
	// Date is the hearing date in DDMMYYYY form.
	Date string `json:"date"`

	// Side selects which published list is fetched.
	Side Side `json:"side"`

	// AdvocateName is the name searched for, as given by the caller.
	AdvocateName string `json:"advocate"`

	// BaseURL is the court website root without a trailing slash.
	BaseURL string `json:"base_url"`
}

// ParseFetchRequest validates and normalizes the four request strings.
// Any problem is reported as an *InvalidInputError.
func ParseFetchRequest(date, side, advocate, baseURL string) (FetchRequest, error) {
	parsedSide, err := ParseSide(side)
	if err != nil {
		return FetchRequest{}, err
	}

	req := FetchRequest{
		Date:         strings.TrimSpace(date),
		Side:         parsedSide,
		AdvocateName: strings.TrimSpace(advocate),
		BaseURL:      strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
	if err := req.Validate(); err != nil {
		return FetchRequest{}, err
	}
	return req, nil
}

// Validate checks the request invariants.
func (r FetchRequest) Validate() error {
	if _, err := ParseDate(r.Date); err != nil {
		return err
	}
	if !r.Side.Valid() {
		return NewInvalidInputError("side", "must be one of: %s, %s", SideOriginal, SideAppellate)
	}
	if strings.TrimSpace(r.AdvocateName) == "" {
		return NewInvalidInputError("advocate", "must not be empty")
	}
	return ValidateBaseURL(r.BaseURL)
}

// HearingDate returns the parsed hearing date. It is only meaningful on a
// validated request.
func (r FetchRequest) HearingDate() time.Time {
	t, _ := ParseDate(r.Date) //nolint:errcheck // validated by construction
	return t
}

// ParseDate parses a DDMMYYYY string. "31022025" passes the 8-digit shape
// check but is rejected because February has no 31st day.
func ParseDate(s string) (time.Time, error) {
	if !datePattern.MatchString(s) {
		return time.Time{}, NewInvalidInputError("date", "%q must be in DDMMYYYY format (e.g., 23052025)", s)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, NewInvalidInputError("date", "%q is not a calendar date", s)
	}
	return t, nil
}

// ValidateBaseURL checks that s is an absolute http(s) URL.
func ValidateBaseURL(s string) error {
	if s == "" {
		return NewInvalidInputError("base_url", "must not be empty")
	}
	u, err := url.Parse(s)
	if err != nil {
		return NewInvalidInputError("base_url", "%q is not a valid URL", s)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return NewInvalidInputError("base_url", "%q must use http or https", s)
	}
	if u.Host == "" {
		return NewInvalidInputError("base_url", "%q has no host", s)
	}
	return nil
}
