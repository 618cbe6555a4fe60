package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"

	"github.com/google/uuid"

	"github.com/healthsheets/health-sheets/config"
	"github.com/healthsheets/health-sheets/strava"
)

var AuthoriseCmd = Authorise{}

// Authorise runs the one-off Strava authorisation that creates the refresh token file. Strava
// redirects back to a temporary HTTP server on the redirect address with the authorisation code.
type Authorise struct {
	address string
	tokens  string
	debug   bool
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises health-sheets to read Strava activities and saves the Strava refresh token"
}

func (cmd *Authorise) Usage() string {
	return "[--address <host:port>] [--refresh-token <file>]"
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("authorise", flag.ExitOnError)

	flagset.StringVar(&cmd.address, "address", cmd.address, "Local address for the authorisation redirect. Defaults to $STRAVA_REDIRECT_ADDRESS or localhost:8085")
	flagset.StringVar(&cmd.tokens, "refresh-token", cmd.tokens, "Strava refresh token file. Defaults to $PROJECT_PATH/config/refresh_token.txt")

	return flagset
}

func (cmd *Authorise) Execute(ctx context.Context, options *Options) error {
	cmd.debug = options.Debug

	cfg, err := config.Load(options.EnvFile)
	if err != nil {
		return fmt.Errorf("could not load configuration (%v)", err)
	}

	if strings.TrimSpace(cfg.Strava.ClientID) == "" {
		return fmt.Errorf("missing STRAVA_CLIENT_ID")
	}

	if strings.TrimSpace(cfg.Strava.ClientSecret) == "" {
		return fmt.Errorf("missing STRAVA_CLIENT_SECRET")
	}

	if cmd.address != "" {
		cfg.RedirectAddress = cmd.address
		cfg.Strava.RedirectURL = "http://" + cmd.address + "/"
	}

	if cmd.tokens != "" {
		cfg.RefreshTokenFile = cmd.tokens
	}

	if err := authenticate(ctx, cfg, cmd.debug); err != nil {
		return fmt.Errorf("authorisation error (%v)", err)
	}

	return nil
}

func authenticate(ctx context.Context, cfg config.Config, debug bool) error {
	state := uuid.NewString()
	tokens := strava.NewFileTokenStore(cfg.RefreshTokenFile)
	url := strava.AuthCodeURL(cfg.Strava, state)

	// ... start HTTP server on the redirect address
	authorised := make(chan string, 1)
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, rq *http.Request) {
		if debug {
			debugf("RQ:  %+v", rq.URL)
		}

		if rq.FormValue("state") != state {
			http.Error(w, "Invalid authorisation state", http.StatusBadRequest)
			return
		}

		if msg := rq.FormValue("error"); msg != "" {
			http.Error(w, fmt.Sprintf("Authorisation declined (%v)", msg), http.StatusForbidden)
			return
		}

		code := rq.FormValue("code")
		if code == "" {
			http.Error(w, "Missing authorisation code", http.StatusBadRequest)
			return
		}

		fmt.Fprintln(w, "health-sheets authorised - you can close this window")

		select {
		case authorised <- code:
		default:
		}
	})

	srv := &http.Server{
		Addr:    cfg.RedirectAddress,
		Handler: mux,
	}

	errs := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	defer func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			warnf("%v", err)
		}
	}()

	// ... CTRL-C handler
	interrupt := make(chan os.Signal, 1)

	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	// ... open authorisation URL in browser
	command := exec.Command(BROWSER, url)
	if _, err := command.CombinedOutput(); err != nil {
		fmt.Printf("Could not open the Strava authorisation page in your browser - please open the following link manually:\n\n  %v\n\n", url)
	}

	// ... wait for authorisation
	select {
	case <-interrupt:
		fmt.Printf("\n.. cancelled\n\n")
		return nil

	case err := <-errs:
		return err

	case <-ctx.Done():
		return ctx.Err()

	case code := <-authorised:
		if _, err := strava.Exchange(ctx, cfg.Strava, code, tokens); err != nil {
			return fmt.Errorf("unable to retrieve token from Strava (%w)", err)
		}

		infof("Saved Strava refresh token to %v", cfg.RefreshTokenFile)
	}

	return nil
}
