package credential

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/perchapps/appcore/session"
)

const (
	argonTime        uint32 = 1
	argonMemoryKB    uint32 = 16 * 1024
	argonParallelism uint8  = 1
	argonSaltLength         = 16
	argonKeyLength   uint32 = 32

	defaultTokenTTL = time.Hour
	notifyBuffer    = 16
)

// MemoryConfig tunes the in-process credential store. The zero value is
// usable: a random secret and a one-hour token lifetime.
type MemoryConfig struct {
	TokenTTL time.Duration
	Secret   []byte
}

type memoryAccount struct {
	userID       string
	passwordHash string
}

// Memory is an in-process [Store] used by tests, the example server, and the
// load tooling. It mirrors the hosted provider's observable behavior:
// argon2id password hashes, HS256 access tokens, asynchronous auth-state
// notifications delivered in order on a dedicated goroutine, and the
// account-enumeration-safe error contract.
type Memory struct {
	tokenTTL time.Duration
	secret   []byte

	mu         sync.Mutex
	accounts   map[string]memoryAccount
	current    *session.Session
	handlers   map[uint64]func(Change)
	handlerSeq uint64
	failNext   error

	notify    chan Change
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemory creates a started Memory store. Callers must Close it to stop
// the notification goroutine.
func NewMemory(cfg MemoryConfig) *Memory {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	secret := cfg.Secret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, secret); err != nil {
			panic("credential: cannot read random secret: " + err.Error())
		}
	}

	m := &Memory{
		tokenTTL: cfg.TokenTTL,
		secret:   secret,
		accounts: make(map[string]memoryAccount),
		handlers: make(map[uint64]func(Change)),
		notify:   make(chan Change, notifyBuffer),
		done:     make(chan struct{}),
	}

	m.wg.Add(1)
	go m.run()

	return m
}

// Close stops the notification goroutine after draining pending changes.
func (m *Memory) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
	m.wg.Wait()
}

func (m *Memory) run() {
	defer m.wg.Done()

	for {
		select {
		case change := <-m.notify:
			m.dispatch(change)
		case <-m.done:
			for {
				select {
				case change := <-m.notify:
					m.dispatch(change)
				default:
					return
				}
			}
		}
	}
}

func (m *Memory) dispatch(change Change) {
	m.mu.Lock()
	handlers := make([]func(Change), 0, len(m.handlers))
	for _, h := range m.handlers {
		handlers = append(handlers, h)
	}
	m.mu.Unlock()

	for _, h := range handlers {
		h(change)
	}
}

func (m *Memory) emit(change Change) {
	select {
	case m.notify <- change:
	case <-m.done:
	}
}

// takeFailure consumes a queued failure injected by FailNextWith. Callers
// must hold mu.
func (m *Memory) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

// FailNextWith makes the next Store call fail with err, simulating a network
// or timeout failure. A nil err defaults to [ErrUnavailable].
func (m *Memory) FailNextWith(err error) {
	if err == nil {
		err = ErrUnavailable
	}
	m.mu.Lock()
	m.failNext = err
	m.mu.Unlock()
}

// GetSession implements [Store].
func (m *Memory) GetSession(_ context.Context) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	return m.current.Clone(), nil
}

// SignUp implements [Store]. Duplicate registrations fail with
// [ErrDuplicateAccount]; a successful sign-up signs the new account in.
func (m *Memory) SignUp(_ context.Context, email, password string) (*session.Session, error) {
	key := strings.ToLower(email)

	m.mu.Lock()
	if err := m.takeFailure(); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if _, exists := m.accounts[key]; exists {
		m.mu.Unlock()
		return nil, ErrDuplicateAccount
	}

	hash, err := hashPassword(password)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	account := memoryAccount{userID: uuid.NewString(), passwordHash: hash}
	m.accounts[key] = account

	s, err := m.mintLocked(account.userID, key)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()

	m.emit(Change{Event: EventSignedIn, Session: s.Clone()})
	return s, nil
}

// SignInWithPassword implements [Store]. Unknown emails and wrong passwords
// are indistinguishable.
func (m *Memory) SignInWithPassword(_ context.Context, email, password string) (*session.Session, error) {
	key := strings.ToLower(email)

	m.mu.Lock()
	if err := m.takeFailure(); err != nil {
		m.mu.Unlock()
		return nil, err
	}

	account, exists := m.accounts[key]
	if !exists {
		m.mu.Unlock()
		return nil, ErrInvalidCredentials
	}
	ok, err := verifyPassword(password, account.passwordHash)
	if err != nil || !ok {
		m.mu.Unlock()
		return nil, ErrInvalidCredentials
	}

	s, err := m.mintLocked(account.userID, key)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()

	m.emit(Change{Event: EventSignedIn, Session: s.Clone()})
	return s, nil
}

// SignOut implements [Store].
func (m *Memory) SignOut(_ context.Context) error {
	m.mu.Lock()
	if err := m.takeFailure(); err != nil {
		m.mu.Unlock()
		return err
	}
	m.current = nil
	m.mu.Unlock()

	m.emit(Change{Event: EventSignedOut})
	return nil
}

// OnAuthStateChange implements [Store].
func (m *Memory) OnAuthStateChange(handler func(Change)) func() {
	m.mu.Lock()
	m.handlerSeq++
	id := m.handlerSeq
	m.handlers[id] = handler
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.handlers, id)
		m.mu.Unlock()
	}
}

// TriggerRefresh rotates the current session's access token and pushes a
// TOKEN_REFRESHED notification, as the hosted provider does shortly before
// token expiry. It is a no-op without a current session.
func (m *Memory) TriggerRefresh() {
	m.mu.Lock()
	if m.current == nil {
		m.mu.Unlock()
		return
	}
	s, err := m.mintLocked(m.current.UserID, m.current.Email)
	if err != nil {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.emit(Change{Event: EventTokenRefreshed, Session: s.Clone()})
}

// TriggerExternalSignOut clears the current session and pushes a SIGNED_OUT
// notification, simulating a sign-out performed from another device.
func (m *Memory) TriggerExternalSignOut() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	m.emit(Change{Event: EventSignedOut})
}

// mintLocked issues a fresh HS256 token for userID and installs the
// resulting session as current. Callers must hold mu.
func (m *Memory) mintLocked(userID, email string) (*session.Session, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti":   uuid.NewString(),
		"sub":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(m.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, err
	}

	s, err := session.FromAccessToken(signed)
	if err != nil {
		return nil, err
	}
	m.current = s
	return s.Clone(), nil
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemoryKB, argonParallelism, argonKeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemoryKB,
		argonTime,
		argonParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func verifyPassword(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, errors.New("malformed password hash")
	}

	var memory, timeCost uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &parallelism); err != nil {
		return false, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, err
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(password), salt, timeCost, memory, parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
