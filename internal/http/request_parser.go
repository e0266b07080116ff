package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"earnings/internal/core"
)

// maxBodyBytes bounds request bodies read by RequestBodyParser.
const maxBodyBytes = 1 << 20

// RequestBodyParser reads a JSON or form-encoded body once and exposes its
// fields as strings.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	}
	return p
}

// Parse decodes the body. Bodies starting with '{' are JSON, anything else
// is treated as url-encoded form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	body := strings.TrimSpace(string(p.body))
	if body == "" {
		p.formData = url.Values{}
		return nil
	}

	if body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal([]byte(body), &p.jsonData); err != nil {
			p.jsonData = nil
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(body)
	return p.err
}

// Get returns the sanitized value of key, or "" when absent.
func (p *RequestBodyParser) Get(key string) string {
	v, _ := p.Lookup(key)
	return v
}

// Lookup is Get that also reports whether the key was present at all.
func (p *RequestBodyParser) Lookup(key string) (string, bool) {
	if p.jsonData != nil {
		val, ok := p.jsonData[key]
		if !ok {
			return "", false
		}
		return sanitizeInput(stringValue(val)), true
	}
	if p.formData != nil {
		if _, ok := p.formData[key]; !ok {
			return "", false
		}
		return sanitizeInput(p.formData.Get(key)), true
	}
	return "", false
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseProjectInput builds a core.ProjectInput from the request fields
// name, client, date, amount, currency, notes, status and assignedTo.
// Dates are read in loc. The input is not validated beyond parsing.
func ParseProjectInput(p *RequestBodyParser, loc *time.Location) (core.ProjectInput, error) {
	if err := p.Parse(); err != nil {
		return core.ProjectInput{}, fmt.Errorf("%w: %v", errMalformedBody, err)
	}

	in := core.ProjectInput{
		Name:       p.Get("name"),
		Client:     p.Get("client"),
		Notes:      p.Get("notes"),
		AssignedTo: p.Get("assignedTo"),
	}

	date, err := core.ParseDate(p.Get("date"), loc)
	if err != nil {
		return core.ProjectInput{}, err
	}
	in.Date = date

	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		return core.ProjectInput{}, err
	}
	in.Amount = amount

	if v := p.Get("currency"); v != "" {
		cur, err := core.ParseCurrency(v)
		if err != nil {
			return core.ProjectInput{}, err
		}
		in.Currency = cur
	}

	if v := p.Get("status"); v != "" {
		status, err := core.ParseStatus(v)
		if err != nil {
			return core.ProjectInput{}, err
		}
		in.Status = status
	}

	return in, nil
}
