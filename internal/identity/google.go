package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/julianstephens/taskboard/internal/constants"
	"github.com/julianstephens/taskboard/internal/logger"
)

// FederatedAccount is what a federated provider tells us about the person.
type FederatedAccount struct {
	Subject     string
	Email       string
	DisplayName *string
	PhotoURL    *string
}

// FederatedExchanger runs an external sign-in flow to completion.
type FederatedExchanger interface {
	Exchange(ctx context.Context) (FederatedAccount, error)
}

const callbackPath = "/oauth2callback"

// GoogleExchanger signs in with Google using the installed-app loopback
// flow: it serves the redirect on 127.0.0.1, trades the code for a token
// and reads the userinfo endpoint.
type GoogleExchanger struct {
	Config *oauth2.Config
	// Port for the loopback listener. 0 picks a free port.
	Port int
	// Prompt shows the consent URL to the person signing in.
	Prompt func(authURL string)
	// Timeout bounds how long to wait for the browser redirect.
	Timeout time.Duration
	// APIOptions are passed to the userinfo client.
	APIOptions []option.ClientOption
}

// NewGoogleExchanger builds an exchanger for the given OAuth client.
func NewGoogleExchanger(clientID, clientSecret string, port int, prompt func(string)) *GoogleExchanger {
	return &GoogleExchanger{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				oauth2api.OpenIDScope,
				oauth2api.UserinfoEmailScope,
				oauth2api.UserinfoProfileScope,
			},
		},
		Port:    port,
		Prompt:  prompt,
		Timeout: constants.OAuthLoginTimeout,
	}
}

func (g *GoogleExchanger) Exchange(ctx context.Context) (FederatedAccount, error) {
	if g.Config == nil || g.Config.ClientID == "" {
		return FederatedAccount{}, errors.New("google client id is not configured")
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", g.Port))
	if err != nil {
		return FederatedAccount{}, fmt.Errorf("failed to start listener on port %d: %w", g.Port, err)
	}
	defer listener.Close()

	cfg := *g.Config
	cfg.RedirectURL = fmt.Sprintf("http://%s%s", listener.Addr().String(), callbackPath)

	state, err := randomState()
	if err != nil {
		return FederatedAccount{}, err
	}

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "State mismatch", http.StatusBadRequest)
			sendErr(errCh, errors.New("oauth state mismatch"))
			return
		}
		if e := q.Get("error"); e != "" {
			http.Error(w, "Sign-in was not completed", http.StatusBadRequest)
			sendErr(errCh, fmt.Errorf("google sign-in denied: %s", e))
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "Authorization code not found", http.StatusBadRequest)
			sendErr(errCh, errors.New("authorization code not found in redirect URL"))
			return
		}
		fmt.Fprintln(w, "Signed in. You can close this window.")
		select {
		case codeCh <- code:
		default:
		}
	})

	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sendErr(errCh, fmt.Errorf("callback server error: %w", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
	logger.Debug("Waiting for Google redirect", "redirect", cfg.RedirectURL)
	if g.Prompt != nil {
		g.Prompt(authURL)
	}

	timeout := g.Timeout
	if timeout <= 0 {
		timeout = constants.OAuthLoginTimeout
	}

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return FederatedAccount{}, err
	case <-ctx.Done():
		return FederatedAccount{}, ctx.Err()
	case <-time.After(timeout):
		return FederatedAccount{}, errors.New("authorization timed out, please try again")
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return FederatedAccount{}, fmt.Errorf("unable to retrieve token from Google: %w", err)
	}

	opts := append([]option.ClientOption{option.WithTokenSource(cfg.TokenSource(ctx, tok))}, g.APIOptions...)
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return FederatedAccount{}, fmt.Errorf("unable to create userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return FederatedAccount{}, fmt.Errorf("unable to read Google profile: %w", err)
	}

	account := FederatedAccount{Subject: info.Id, Email: info.Email}
	if info.Name != "" {
		account.DisplayName = &info.Name
	}
	if info.Picture != "" {
		account.PhotoURL = &info.Picture
	}
	return account, nil
}

func sendErr(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
