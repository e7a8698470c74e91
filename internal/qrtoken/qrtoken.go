// Package qrtoken issues and verifies the signed tokens embedded in SIMLOK
// permit QR codes. A token is an HS256-signed compact JWT whose subject is
// the submission id; the permit's validity window rides along as civil-date
// claims so a scanner can be warned offline, but the authoritative window
// check happens server-side at verification time.
package qrtoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer = "SIMLOK"

	claimStartDate = "sd"
	claimEndDate   = "ed"

	civilDateLayout = "2006-01-02"
)

// ErrInvalidToken is returned for anything that is not a well-formed,
// correctly signed token issued by this system.
var ErrInvalidToken = errors.New("invalid qr token")

// Payload is the decoded content of a permit QR token.
type Payload struct {
	ID        string
	StartDate *time.Time
	EndDate   *time.Time
	IssuedAt  time.Time
}

type Codec struct {
	secret []byte
}

func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// Issue signs a token for the given submission id and validity window.
// The window dates are encoded as civil dates (no time component): the
// window is interpreted in the service's fixed business timezone, not in
// the timezone of whoever scans the code.
func (c *Codec) Issue(submissionID string, startDate, endDate *time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iss": tokenIssuer,
		"sub": submissionID,
		"iat": time.Now().Unix(),
	}
	if startDate != nil {
		claims[claimStartDate] = startDate.Format(civilDateLayout)
	}
	if endDate != nil {
		claims[claimEndDate] = endDate.Format(civilDateLayout)
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.secret)
}

// Decode verifies the signature and structure of a scanned string and
// returns its payload. Tampered, foreign or malformed input fails with
// ErrInvalidToken; no partial payload is ever returned.
func (c *Codec) Decode(raw string) (*Payload, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}

	tok, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	iss, _ := claims["iss"].(string)
	if iss != tokenIssuer {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	p := &Payload{ID: sub}

	if iat, ok := claims["iat"].(float64); ok {
		p.IssuedAt = time.Unix(int64(iat), 0)
	}

	if sd, ok := claims[claimStartDate].(string); ok {
		t, err := time.Parse(civilDateLayout, sd)
		if err != nil {
			return nil, ErrInvalidToken
		}
		p.StartDate = &t
	}
	if ed, ok := claims[claimEndDate].(string); ok {
		t, err := time.Parse(civilDateLayout, ed)
		if err != nil {
			return nil, ErrInvalidToken
		}
		p.EndDate = &t
	}

	return p, nil
}

// ValidIdentifier reports whether id is safe to use in a lookup: non-empty
// and restricted to alphanumerics, '_' and '-'.
func ValidIdentifier(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}
