package session

import (
	"net/http"
	"time"

	"github.com/vfg2006/income-report-api/internal/domain"
)

const DefaultCookieName = "auth-token"

// Status diz se a requisição trouxe um cookie de sessão e se ele é válido
type Status int

const (
	StatusAbsent Status = iota
	StatusInvalid
	StatusValid
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusInvalid:
		return "invalid"
	case StatusValid:
		return "valid"
	default:
		return "unknown"
	}
}

type StoreOptions struct {
	CookieName string
	Secure     bool
	TTL        time.Duration
}

// Store guarda o token no cookie. Não existe lista de revogação: o token
// continua válido até expirar mesmo depois do logout.
type Store struct {
	codec *TokenCodec
	opts  StoreOptions
}

func NewStore(codec *TokenCodec, opts StoreOptions) *Store {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.TTL <= 0 {
		opts.TTL = codec.TTL()
	}

	return &Store{codec: codec, opts: opts}
}

func (s *Store) CookieName() string {
	return s.opts.CookieName
}

func (s *Store) Create(w http.ResponseWriter, account *domain.Account) (*domain.Claims, error) {
	token, claims, err := s.codec.Issue(account)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, s.cookie(token, int(s.opts.TTL.Seconds())))
	return claims, nil
}

// Read trata cookie ausente e cookie inválido da mesma forma
func (s *Store) Read(r *http.Request) (*domain.Claims, bool) {
	claims, status := s.Inspect(r)
	return claims, status == StatusValid
}

func (s *Store) Inspect(r *http.Request) (*domain.Claims, Status) {
	cookie, err := r.Cookie(s.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, StatusAbsent
	}

	claims, err := s.codec.Verify(cookie.Value)
	if err != nil {
		return nil, StatusInvalid
	}

	return claims, StatusValid
}

func (s *Store) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie("", -1))
}

func (s *Store) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
