package req

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/xy-planning-network/gatehouse"
)

type Parser struct {
	formDecoder formDecoder
	validator
}

func NewParser() *Parser {
	return &Parser{
		formDecoder: newFormDecoder(),
		validator:   newValidator(),
	}
}

// ParseBody decodes into a pointer to a struct the JSON data in *http.Request.Body.
// If successful, ParseBody runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
//
// ParseBody reads the entire r.Body and can't be read from again.
// Use a [io.TeeReader] if r.Body needs to be reused after calling ParseBody.
func (p *Parser) ParseBody(body io.Reader, structPtr any) error {
	var ourFault *json.InvalidUnmarshalError
	err := json.NewDecoder(body).Decode(structPtr)
	if errors.As(err, &ourFault) {
		return fmt.Errorf("gatehouse/http/req: %w: ParseBody called with non-pointer: %s", gatehouse.ErrBadAny, err)
	}

	if err != nil {
		return fmt.Errorf("gatehouse/http/req: %w: failed decoding request body: %s", gatehouse.ErrBadFormat, err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("gatehouse/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}

// ParseForm decodes into a pointer to a struct the form data in *http.Request.PostForm.
// If successful, ParseForm runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
//
// Call *http.Request.ParseForm before handing its PostForm over.
func (p *Parser) ParseForm(form url.Values, structPtr any) error {
	if err := p.formDecoder.decode(structPtr, form); err != nil {
		return fmt.Errorf("gatehouse/http/req: failed decoding request form: %w", err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("gatehouse/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}
