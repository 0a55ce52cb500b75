package utils

import (
	"errors"
	"sync"

	"github.com/gorilla/securecookie"
)

var (
	secureCookieInstance *securecookie.SecureCookie
	secureCookieSecret   string
	once                 sync.Once // Ensure that the SecureCookie instance is created only once
)

// SetSigningSecret sets the secret used by SecureCookie and the signed URL
// helpers. It must be called before either is used.
func SetSigningSecret(secret string) {
	secureCookieSecret = secret
	hmacKey = secret
}

// SecureCookie returns a singleton instance of securecookie.SecureCookie
// keyed with the signing secret. Tokens it issues carry no age limit since
// printed documents must stay verifiable. Links that expire use
// GenerateSignedURL instead.
func SecureCookie() *securecookie.SecureCookie {
	once.Do(func() {
		if secureCookieSecret == "" {
			panic("securecookie: signing secret not configured")
		}
		secureCookieInstance = securecookie.New([]byte(secureCookieSecret), nil)
		secureCookieInstance.MaxAge(0)
		secureCookieInstance.MaxLength(4096)
		secureCookieInstance.SetSerializer(securecookie.JSONEncoder{})
	})
	return secureCookieInstance
}

const verificationTokenName = "document"

// DocumentClaim identifies one application document
type DocumentClaim struct {
	Kind string `json:"k"`
	ID   uint   `json:"i"`
}

var ErrInvalidToken = errors.New("invalid token")

// EncodeDocumentToken signs a claim for embedding in verification QR codes
func EncodeDocumentToken(claim DocumentClaim) (string, error) {
	return SecureCookie().Encode(verificationTokenName, claim)
}

// DecodeDocumentToken validates a token produced by EncodeDocumentToken
func DecodeDocumentToken(token string) (DocumentClaim, error) {
	var claim DocumentClaim
	if err := SecureCookie().Decode(verificationTokenName, token, &claim); err != nil {
		return DocumentClaim{}, ErrInvalidToken
	}
	return claim, nil
}
