package transport

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/screenworks/matcat/pkg/merrors"
	"github.com/screenworks/matcat/pkg/mlog"
)

// jwkDefaultDuration is how long a fetched JWKS is trusted before
// re-fetching.
const jwkDefaultDuration = time.Hour

// JWKProvider fetches and caches the authorization server's JSON Web Key
// Set, used to verify the RS256 signature on a held JWT before attempting
// AuthMode::JWT (spec §6).
type JWKProvider struct {
	URI           string
	CacheDuration time.Duration

	cache *cache.Cache
	once  sync.Once
}

// Fetch returns the cached key set for p.URI, fetching it on first use or
// once CacheDuration has elapsed.
func (p *JWKProvider) Fetch(ctx context.Context) (jwk.Set, error) {
	p.once.Do(func() {
		duration := p.CacheDuration
		if duration <= 0 {
			duration = jwkDefaultDuration
		}

		p.cache = cache.New(duration, duration)
	})

	if set, found := p.cache.Get(p.URI); found {
		return set.(jwk.Set), nil
	}

	set, err := jwk.Fetch(ctx, p.URI)
	if err != nil {
		return nil, err
	}

	p.cache.Set(p.URI, set, p.CacheDuration)

	return set, nil
}

// VerifyJWT parses tokenString, checks its RS256 signature against the
// JWKS served by p, and rejects it if expired. A failure here means the
// client should fall back to AuthMode::REPEAT_TOKEN, or fail the handshake
// if no repeat token is held either (spec §7: InvalidJWT).
func (p *JWKProvider) VerifyJWT(ctx context.Context, tokenString string) error {
	keySet, err := p.Fetch(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch JWKS")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, errors.New("kid header not found")
		}

		key, ok := keySet.LookupKeyID(kid)
		if !ok {
			return nil, errors.New("token does not match any known key id")
		}

		var raw any
		if err := key.Raw(&raw); err != nil {
			return nil, err
		}

		return raw, nil
	})
	if err != nil {
		return err
	}

	if !token.Valid {
		return errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("token carries no claims")
	}

	exp, ok := claims["exp"].(float64)
	if ok && time.Unix(int64(exp), 0).Before(time.Now()) {
		return errors.New("token is expired")
	}

	return nil
}

// AuthMode selects which credential the client presents at handshake step
// 5 (spec §6).
type AuthMode uint8

const (
	AuthModeJWT AuthMode = iota
	AuthModeRepeatToken
)

// RepeatTokenSize is the width of a repeat token on the wire (spec §6:
// "token_256").
const RepeatTokenSize = 32

// ConnectionResponse is the server's final handshake verdict (spec §6,
// step 6).
type ConnectionResponse uint8

const (
	ConnectionFailed ConnectionResponse = iota
	ConnectionSuccess
	ConnectionSuccessAdmin
)

// Credentials bundles whichever auth material the caller holds. At least
// one of JWT or RepeatToken should be set; JWT is attempted first, and a JWT
// that fails local verification against a JWKProvider falls back to
// RepeatToken (spec §7). A JWT the server rejects at step 6 does not fall
// back: the handshake fails with InvalidJWT.
type Credentials struct {
	JWT         string
	RepeatToken [RepeatTokenSize]byte
	HasRepeat   bool
}

// Session is the negotiated symmetric state produced by a successful
// handshake: the AES-256 key and the session token that Client.Send puts in
// front of every outbound AES_MESSAGE plaintext. Inbound AES_MESSAGE frames
// are not checked for it.
type Session struct {
	Key          []byte
	SessionToken uint64
	Response     ConnectionResponse
}

// Handshake runs the client side of the six-step mutual-authentication
// exchange over rw (spec §6). priv is the client's persisted RSA key pair;
// pinnedServerKey, if non-nil, is checked against the server's presented
// public key to guard against impersonation before any secret is
// exchanged. jwkProvider may be nil, in which case the JWT is sent
// unverified by the client (the server is always the final arbiter).
func Handshake(ctx context.Context, rw io.ReadWriter, priv *rsa.PrivateKey, pinnedServerKey *rsa.PublicKey, creds Credentials, jwkProvider *JWKProvider, logger mlog.Logger) (*Session, error) {
	if logger == nil {
		logger = mlog.NoopLogger{}
	}

	// Step 1: C -> S client public key.
	if err := WriteFrame(rw, Frame{Tag: KeyMessage, Payload: x509.MarshalPKCS1PublicKey(&priv.PublicKey)}); err != nil {
		return nil, merrors.NewHandshakeError(merrors.NoConnection, err)
	}

	// Step 2: S -> C server public key.
	serverKeyFrame, err := ReadFrame(rw)
	if err != nil || serverKeyFrame.Tag != KeyMessage {
		return nil, merrors.NewHandshakeError(merrors.NoConnection, err)
	}

	serverPub, err := x509.ParsePKCS1PublicKey(serverKeyFrame.Payload)
	if err != nil {
		return nil, merrors.NewHandshakeError(merrors.NoConnection, err)
	}

	if pinnedServerKey != nil && serverPub.N.Cmp(pinnedServerKey.N) != 0 {
		return nil, merrors.NewHandshakeError(merrors.CredsExchangeFailed, errors.New("server key does not match pinned signature"))
	}

	// Step 3: C -> S Enc_S(nonce_c).
	nonceC := make([]byte, ChallengeSize)
	if _, err := rand.Read(nonceC); err != nil {
		return nil, merrors.NewHandshakeError(merrors.NoConnection, err)
	}

	encNonceC, err := encryptRSA(serverPub, nonceC)
	if err != nil {
		return nil, merrors.NewHandshakeError(merrors.NoConnection, err)
	}

	if err := WriteFrame(rw, Frame{Tag: RSAMessage, Payload: encNonceC}); err != nil {
		return nil, merrors.NewHandshakeError(merrors.NoConnection, err)
	}

	// Step 4: S -> C Enc_C(Sign_S(nonce_c || nonce_s || session_aes_key || session_token)).
	challengeFrame, err := ReadFrame(rw)
	if err != nil || challengeFrame.Tag != RSAMessage {
		return nil, merrors.NewHandshakeError(merrors.NoConnection, err)
	}

	plain, err := decryptRSA(priv, challengeFrame.Payload)
	if err != nil {
		return nil, merrors.NewHandshakeError(merrors.CredsExchangeFailed, err)
	}

	wantSignedLen := ChallengeSize + ChallengeSize + SessionKeySize + 8
	if len(plain) < wantSignedLen {
		return nil, merrors.NewHandshakeError(merrors.CredsExchangeFailed, errors.New("challenge response too short"))
	}

	signed := plain[:wantSignedLen]
	signature := plain[wantSignedLen:]

	if err := verifyRSA(serverPub, signed, signature); err != nil {
		return nil, merrors.NewHandshakeError(merrors.CredsExchangeFailed, err)
	}

	gotNonceC := signed[:ChallengeSize]
	for i := range nonceC {
		if gotNonceC[i] != nonceC[i] {
			return nil, merrors.NewHandshakeError(merrors.CredsExchangeFailed, errors.New("nonce_c mismatch"))
		}
	}

	sessionKey := make([]byte, SessionKeySize)
	copy(sessionKey, signed[2*ChallengeSize:2*ChallengeSize+SessionKeySize])
	sessionToken := binary.LittleEndian.Uint64(signed[2*ChallengeSize+SessionKeySize:])

	// Step 5: C -> S, under AES, AuthMode::JWT||jwt or AuthMode::REPEAT_TOKEN||token.
	mode, authPayload, err := buildAuthPayload(ctx, creds, jwkProvider, logger)
	if err != nil {
		return nil, err
	}

	body := make([]byte, 8+1+len(authPayload))
	binary.LittleEndian.PutUint64(body, sessionToken)
	body[8] = byte(mode)
	copy(body[9:], authPayload)

	sealed, err := sealAES(sessionKey, body)
	if err != nil {
		return nil, merrors.NewHandshakeError(merrors.CredsExchangeFailed, err)
	}

	if err := WriteFrame(rw, Frame{Tag: AESMessage, Payload: sealed}); err != nil {
		return nil, merrors.NewHandshakeError(merrors.NoConnection, err)
	}

	// Step 6: S -> C CONNECTION_RESPONSE_MESSAGE.
	respFrame, err := ReadFrame(rw)
	if err != nil {
		return nil, merrors.NewHandshakeError(merrors.NoConnection, err)
	}

	if respFrame.Tag != ConnectionResponseMessage || len(respFrame.Payload) < 1 {
		return nil, merrors.NewHandshakeError(merrors.CredsExchangeFailed, errors.New("malformed connection response"))
	}

	response := ConnectionResponse(respFrame.Payload[0])
	if response == ConnectionFailed {
		reason := merrors.CredsExchangeFailed
		if mode == AuthModeRepeatToken {
			reason = merrors.InvalidRepeatToken
		} else {
			reason = merrors.InvalidJWT
		}

		return nil, merrors.NewHandshakeError(reason, errors.New("server rejected credentials"))
	}

	return &Session{Key: sessionKey, SessionToken: sessionToken, Response: response}, nil
}

// buildAuthPayload picks AuthMode::JWT when creds.JWT verifies against
// jwkProvider (or jwkProvider is nil, leaving final verification to the
// server), falling back to AuthMode::REPEAT_TOKEN when it doesn't and a
// repeat token is held (spec §7: an invalid JWT falls back, it does not
// immediately fail the handshake).
func buildAuthPayload(ctx context.Context, creds Credentials, jwkProvider *JWKProvider, logger mlog.Logger) (AuthMode, []byte, error) {
	if creds.JWT != "" {
		if jwkProvider != nil {
			if err := jwkProvider.VerifyJWT(ctx, creds.JWT); err != nil {
				logger.Warnf("handshake: held JWT failed local verification, falling back: %s", err)
			} else {
				return AuthModeJWT, []byte(creds.JWT), nil
			}
		} else {
			return AuthModeJWT, []byte(creds.JWT), nil
		}
	}

	if creds.HasRepeat {
		return AuthModeRepeatToken, creds.RepeatToken[:], nil
	}

	return 0, nil, merrors.NewHandshakeError(merrors.InvalidJWT, errors.New("no usable JWT or repeat token held"))
}
