package models

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// InlinePrefix marks a self-contained encoded image in the persisted partner-logo list.
const InlinePrefix = "data:"

// MaxInlineLogoBytes caps the size of an uploaded logo before encoding.
const MaxInlineLogoBytes = 2 << 20

// LogoKind tags a partner logo as a remote URL or an inline payload.
type LogoKind int

const (
	LogoURL LogoKind = iota
	LogoInline
)

// Logo is one entry of the partner-logo list. Value is the displayable string:
// the URL itself, or the full data URI for inline payloads.
type Logo struct {
	Kind  LogoKind
	Value string
}

// URLLogo returns an externally hosted logo reference.
func URLLogo(u string) Logo { return Logo{Kind: LogoURL, Value: u} }

// InlineLogo returns an inline payload logo. The payload must already be a data URI.
func InlineLogo(payload string) Logo { return Logo{Kind: LogoInline, Value: payload} }

// ParseLogo classifies a persisted string. Only the persistence boundary should call it.
func ParseLogo(s string) Logo {
	if strings.HasPrefix(s, InlinePrefix) {
		return InlineLogo(s)
	}
	return URLLogo(s)
}

// Logos is the ordered partner-logo list; order is display order.
type Logos []Logo

// ParseLogos converts the persisted string list into tagged logos.
func ParseLogos(raw []string) Logos {
	out := make(Logos, 0, len(raw))
	for _, s := range raw {
		out = append(out, ParseLogo(s))
	}
	return out
}

// Strings serializes the list back to the shared string convention.
func (ls Logos) Strings() []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Value)
	}
	return out
}

// URLs returns the URL-form entries in order.
func (ls Logos) URLs() []string {
	var out []string
	for _, l := range ls {
		if l.Kind == LogoURL {
			out = append(out, l.Value)
		}
	}
	return out
}

// Inline returns the inline payload entries in order.
func (ls Logos) Inline() Logos {
	var out Logos
	for _, l := range ls {
		if l.Kind == LogoInline {
			out = append(out, l)
		}
	}
	return out
}

// ReplaceURLs swaps every URL entry for the given list and keeps all inline payloads
// untouched after them. Blank lines are dropped and lines carrying the inline prefix are
// ignored so URL edits can never forge a payload.
func (ls Logos) ReplaceURLs(urls []string) Logos {
	out := make(Logos, 0, len(urls)+len(ls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || strings.HasPrefix(u, InlinePrefix) {
			continue
		}
		out = append(out, URLLogo(u))
	}
	return append(out, ls.Inline()...)
}

// AppendInline adds uploaded payloads at the end of the list.
func (ls Logos) AppendInline(payloads ...Logo) Logos {
	out := make(Logos, 0, len(ls)+len(payloads))
	out = append(out, ls...)
	for _, p := range payloads {
		out = append(out, InlineLogo(p.Value))
	}
	return out
}

// Remove drops the entry at index i, keeping the others in their relative order.
func (ls Logos) Remove(i int) (Logos, error) {
	if i < 0 || i >= len(ls) {
		return ls, fmt.Errorf("%w: logo index %d out of range [0,%d)", ErrValidation, i, len(ls))
	}
	out := make(Logos, 0, len(ls)-1)
	out = append(out, ls[:i]...)
	return append(out, ls[i+1:]...), nil
}

// MarshalJSON encodes the list as the persisted string array.
func (ls Logos) MarshalJSON() ([]byte, error) {
	return json.Marshal(ls.Strings())
}

// UnmarshalJSON decodes a string array into tagged logos.
func (ls *Logos) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*ls = ParseLogos(raw)
	return nil
}

// InlineLogoFromReader reads an uploaded image and encodes it as a data URI.
// Non-image content and files above MaxInlineLogoBytes are rejected.
func InlineLogoFromReader(r io.Reader) (Logo, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxInlineLogoBytes+1))
	if err != nil {
		return Logo{}, fmt.Errorf("failed to read logo: %w", err)
	}
	if len(body) == 0 {
		return Logo{}, fmt.Errorf("%w: empty logo file", ErrValidation)
	}
	if len(body) > MaxInlineLogoBytes {
		return Logo{}, fmt.Errorf("%w: logo exceeds %d bytes", ErrValidation, MaxInlineLogoBytes)
	}

	mtype := mimetype.Detect(body)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return Logo{}, fmt.Errorf("%w: logo is not an image (%s)", ErrValidation, mtype.String())
	}

	payload := InlinePrefix + mtype.String() + ";base64," + base64.StdEncoding.EncodeToString(body)
	return InlineLogo(payload), nil
}
