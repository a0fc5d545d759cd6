package auth

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"tasker_server/pkg/logger"
	"tasker_server/pkg/rest"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

// Module name used to reference this package in the logs.
const module = "auth"

// Default validity duration of an issued token when none is
// defined in the configuration.
const defaultExpiry = 3600 * time.Second

// Delay before an issued token becomes usable. This deliberate
// buffer absorbs clock skew between the issuing server and the
// machines verifying the token afterwards.
const notBeforeDelay = 2 * time.Second

// tokenClaims :
// Describes the payload signed into a bearer token. On top of
// the registered claims (issue, not before and expiry times) we
// carry the name of the user the token was issued to.
type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager :
// Provides the signing and verification of bearer credentials.
// The manager holds the signing secret decoded from the config
// and the validity duration to apply to issued tokens. It is
// immutable after creation and safe for concurrent use.
//
// The `key` defines the signing secret. The configuration holds
// it in a base64 encoded form and it is decoded once upon the
// creation of the manager.
//
// The `expiry` defines the duration for which an issued token
// stays valid.
//
// The `now` provides the current time. It exists so that tests
// can move the clock around the validity window of a token.
//
// The `log` allows to notify errors and information.
type TokenManager struct {
	key    []byte
	expiry time.Duration
	now    func() time.Time
	log    logger.Logger
}

// NewTokenManager :
// Creates a new token manager from the properties defined in the
// configuration file. The signing secret is mandatory: a missing
// or undecodable `Token.Key` raises a panic as no authenticated
// route could ever be served without it.
//
// The `log` defines the logging device to use.
//
// Returns the created manager.
func NewTokenManager(log logger.Logger) *TokenManager {
	encoded := viper.GetString("Token.Key")
	if len(encoded) == 0 {
		panic(fmt.Errorf("cannot create token manager with no signing key configured"))
	}

	// The secret is stored and transmitted in a base64 encoded
	// form and must be decoded before use.
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		panic(fmt.Errorf("cannot decode configured signing key (err: %v)", err))
	}

	expiry := defaultExpiry
	if viper.IsSet("Token.Expiry") {
		expiry = time.Duration(viper.GetInt("Token.Expiry")) * time.Second
	}

	return &TokenManager{
		key:    key,
		expiry: expiry,
		now:    time.Now,
		log:    log,
	}
}

// IssueToken :
// Creates a new signed bearer credential for the input username.
// The token is issued now, becomes usable two seconds later and
// expires after the configured validity duration.
//
// The `username` defines the user to issue a token for.
//
// Returns the signed credential along with any error. A signing
// failure is reported as an internal error record.
func (m *TokenManager) IssueToken(username string) (string, error) {
	issuedAt := m.now()

	claims := tokenClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt.Add(notBeforeDelay)),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(m.key)
	if err != nil {
		m.log.Trace(logger.Error, module, fmt.Sprintf("Could not sign token for \"%s\" (err: %v)", username, err))
		return "", rest.NewError(http.StatusInternalServerError, rest.InternalErr)
	}

	return signed, nil
}

// Authenticate :
// Verifies the input bearer credential against the signing secret.
// A missing credential, a bad signature, a token used before its
// not-before time or after its expiry all yield the same invalid
// token error record so that a client cannot probe the difference.
//
// The `credential` defines the bearer credential to verify.
//
// Returns the identity decoded from the credential along with any
// error.
func (m *TokenManager) Authenticate(credential string) (rest.Identity, error) {
	var identity rest.Identity

	if len(credential) == 0 {
		return identity, rest.NewError(http.StatusUnauthorized, rest.InvalidToken)
	}

	claims := tokenClaims{}

	_, err := jwt.ParseWithClaims(
		credential,
		&claims,
		func(token *jwt.Token) (interface{}, error) {
			return m.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		m.log.Trace(logger.Debug, module, fmt.Sprintf("Rejecting credential (err: %v)", err))
		return identity, rest.NewError(http.StatusUnauthorized, rest.InvalidToken)
	}

	if len(claims.Username) == 0 {
		return identity, rest.NewError(http.StatusUnauthorized, rest.InvalidToken)
	}

	identity.Username = claims.Username
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}
	if claims.NotBefore != nil {
		identity.NotBefore = claims.NotBefore.Time
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}

	return identity, nil
}
