package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"Hover/internal/log"
)

type contextKey string

const loginKey contextKey = "login"

const (
	cookieName = "session_token"
	tokenTTL   = 12 * time.Hour
)

// Authenv authenticates the single operator account configured for the
// service.
type Authenv struct {
	JWTkey       []byte
	Login        string
	PasswordHash []byte
	Logger       *log.Logger
	// SecureCookie marks the session cookie HTTPS-only; set it when serving TLS.
	SecureCookie bool
}

type IPRateLimiter struct {
	ips *lru.Cache[string, *rate.Limiter]
	r   rate.Limit
	b   int
}

type Loginrequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

const maxTrackedIPs = 4096

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, *rate.Limiter](maxTrackedIPs)
	return &IPRateLimiter{
		ips: cache,
		r:   r,
		b:   b,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if limiter, ok := i.ips.Get(ip); ok {
		return limiter
	}
	limiter := rate.NewLimiter(i.r, i.b)
	if prev, ok, _ := i.ips.PeekOrAdd(ip, limiter); ok {
		return prev
	}
	return limiter
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LimitMiddleware rate limits requests per remote host.
func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !i.getLimiter(remoteHost(r)).Allow() {
			http.Error(w, "Too Many Requests. Try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (env *Authenv) IssueToken(login string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"login": login,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	})
	return token.SignedString(env.JWTkey)
}

func (env *Authenv) parseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return env.JWTkey, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}
	login, ok := claims["login"].(string)
	if !ok || login == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return login, nil
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (env *Authenv) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := tokenFromRequest(r)
		if tokenString == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		login, err := env.parseToken(tokenString)
		if err != nil {
			env.Logger.Debug("rejected token", "error", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), loginKey, login)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoginFrom returns the operator login stored by AuthMiddleware.
func LoginFrom(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(loginKey).(string)
	return login, ok
}

var errBadCredentials = errors.New("invalid login or password")

func (env *Authenv) checkCredentials(login, password string) error {
	if env.Login == "" || len(env.PasswordHash) == 0 {
		return errBadCredentials
	}
	if subtle.ConstantTimeCompare([]byte(login), []byte(env.Login)) != 1 {
		return errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(env.PasswordHash, []byte(password)); err != nil {
		return errBadCredentials
	}
	return nil
}

func (env *Authenv) AuthHandler(w http.ResponseWriter, r *http.Request) {
	var req Loginrequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		http.Error(w, "Login and password required", http.StatusBadRequest)
		return
	}

	if err := env.checkCredentials(req.Login, req.Password); err != nil {
		env.Logger.Warn("failed login", "login", req.Login, "remote", remoteHost(r))
		http.Error(w, "Invalid login or password", http.StatusUnauthorized)
		return
	}

	now := time.Now()
	tokenString, err := env.IssueToken(req.Login, now)
	if err != nil {
		env.Logger.Error("token signing failed", "error", err)
		http.Error(w, "Token error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    tokenString,
		Expires:  now.Add(tokenTTL),
		Path:     "/",
		HttpOnly: true,
		Secure:   env.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": tokenString})
}
