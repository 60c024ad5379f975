// Command prefsctl is a thin command-line client for the preferences server.
// It keeps the token pair from the last login in the user's config directory
// so consecutive invocations stay authenticated.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/MKhiriev/go-user-prefs/internal/adapter"
	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const usageText = `Usage: prefsctl [flags] <command> [command flags]

Commands:
  register   create an account and start a session
  login      exchange credentials for a session
  refresh    rotate the stored token pair
  logout     drop the stored session
  get        print the full preferences document
  section    print a single group: account | notifications | theme | privacy
  create     create the preferences document from a JSON file or string
  set        partially update preferences from a JSON file or string
  delete     delete the preferences document
  password   change the account password
  version    print client and server versions

Flags:
  -address   server address (default localhost:8080, env PREFSCTL_ADDRESS)
  -timeout   request timeout (default 15s)
`

func main() {
	address := flag.String("address", defaultAddress(), "Preferences server address")
	timeout := flag.Duration("timeout", 15*time.Second, "Request timeout")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usageText) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	srv, err := adapter.NewHTTPServerAdapter(*address, *timeout, logger.Nop())
	if err != nil {
		fatalf("invalid server address: %v", err)
	}

	session, err := loadSession()
	if err != nil {
		fatalf("load session: %v", err)
	}
	srv.SetTokens(session)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	command, args := flag.Arg(0), flag.Args()[1:]
	if err = runCommand(ctx, srv, command, args); err != nil {
		fatalf("%s: %v", command, err)
	}
}

func runCommand(ctx context.Context, srv adapter.ServerAdapter, command string, args []string) error {
	switch command {
	case "register":
		return runRegister(ctx, srv, args)
	case "login":
		return runLogin(ctx, srv, args)
	case "refresh":
		return runRefresh(ctx, srv)
	case "logout":
		return clearSession()
	case "get":
		return runGet(ctx, srv)
	case "section":
		return runSection(ctx, srv, args)
	case "create":
		return runCreate(ctx, srv, args)
	case "set":
		return runSet(ctx, srv, args)
	case "delete":
		return runDelete(ctx, srv)
	case "password":
		return runPassword(ctx, srv, args)
	case "version":
		return runVersion(ctx, srv)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runRegister(ctx context.Context, srv adapter.ServerAdapter, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "Username (required)")
	email := fs.String("email", "", "Email address (required)")
	password := fs.String("password", "", "Password (required)")
	_ = fs.Parse(args)

	pair, err := srv.Register(ctx, models.RegisterRequest{
		Username: *username,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		return err
	}

	if err = saveSession(pair); err != nil {
		return err
	}

	fmt.Printf("registered as %s\n", *username)
	return nil
}

func runLogin(ctx context.Context, srv adapter.ServerAdapter, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "Username (required)")
	password := fs.String("password", "", "Password (required)")
	_ = fs.Parse(args)

	pair, err := srv.Login(ctx, models.LoginRequest{Username: *username, Password: *password})
	if err != nil {
		return err
	}

	if err = saveSession(pair); err != nil {
		return err
	}

	fmt.Printf("logged in as %s\n", *username)
	return nil
}

func runRefresh(ctx context.Context, srv adapter.ServerAdapter) error {
	pair, err := srv.Refresh(ctx)
	if err != nil {
		return err
	}

	if err = saveSession(pair); err != nil {
		return err
	}

	fmt.Println("session refreshed")
	return nil
}

func runGet(ctx context.Context, srv adapter.ServerAdapter) error {
	prefs, err := srv.GetPreferences(ctx)
	if err != nil {
		return err
	}

	return printJSON(prefs)
}

func runSection(ctx context.Context, srv adapter.ServerAdapter, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one section name, got %d arguments", len(args))
	}

	raw, err := srv.GetSection(ctx, args[0])
	if err != nil {
		return err
	}

	var indented json.RawMessage
	if err = json.Unmarshal(raw, &indented); err != nil {
		return fmt.Errorf("decode section: %w", err)
	}

	return printJSON(indented)
}

func runCreate(ctx context.Context, srv adapter.ServerAdapter, args []string) error {
	document, err := readDocumentFlag("create", args)
	if err != nil {
		return err
	}

	var create models.PreferencesCreate
	if err = json.Unmarshal(document, &create); err != nil {
		return fmt.Errorf("decode preferences document: %w", err)
	}

	prefs, err := srv.CreatePreferences(ctx, create)
	if err != nil {
		return err
	}

	return printJSON(prefs)
}

func runSet(ctx context.Context, srv adapter.ServerAdapter, args []string) error {
	document, err := readDocumentFlag("set", args)
	if err != nil {
		return err
	}

	var update models.PreferencesUpdate
	if err = json.Unmarshal(document, &update); err != nil {
		return fmt.Errorf("decode preferences update: %w", err)
	}

	prefs, err := srv.UpdatePreferences(ctx, update)
	if err != nil {
		return err
	}

	return printJSON(prefs)
}

func runDelete(ctx context.Context, srv adapter.ServerAdapter) error {
	if err := srv.DeletePreferences(ctx); err != nil {
		return err
	}

	fmt.Println("preferences deleted")
	return nil
}

func runPassword(ctx context.Context, srv adapter.ServerAdapter, args []string) error {
	fs := flag.NewFlagSet("password", flag.ExitOnError)
	current := fs.String("current", "", "Current password (required)")
	newPassword := fs.String("new", "", "New password (required)")
	_ = fs.Parse(args)

	result, err := srv.UpdatePassword(ctx, models.PasswordUpdateRequest{
		CurrentPassword: *current,
		NewPassword:     *newPassword,
	})
	if err != nil {
		return err
	}

	// the server revoked every refresh token; persist the replacement pair
	if err = saveSession(srv.Tokens()); err != nil {
		return err
	}

	fmt.Println(result.Message)
	return nil
}

func runVersion(ctx context.Context, srv adapter.ServerAdapter) error {
	fmt.Printf("client: %s (%s, %s)\n", orNA(buildVersion), orNA(buildDate), orNA(buildCommit))

	serverVersion, err := srv.Version(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("server: %s\n", serverVersion)
	return nil
}

// orNA substitutes "N/A" for build metadata left empty by the linker.
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// readDocumentFlag parses the shared -file/-json flags of the create and set
// commands and returns the JSON document bytes.
func readDocumentFlag(command string, args []string) ([]byte, error) {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	file := fs.String("file", "", "Path to a JSON preferences document")
	raw := fs.String("json", "", "Inline JSON preferences document")
	_ = fs.Parse(args)

	switch {
	case *file != "" && *raw != "":
		return nil, fmt.Errorf("use either -file or -json, not both")
	case *file != "":
		data, err := os.ReadFile(*file)
		if err != nil {
			return nil, fmt.Errorf("read document file: %w", err)
		}
		return data, nil
	case *raw != "":
		return []byte(*raw), nil
	default:
		return nil, fmt.Errorf("a document is required: pass -file or -json")
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	fmt.Println(string(data))
	return nil
}

func defaultAddress() string {
	if address := os.Getenv("PREFSCTL_ADDRESS"); address != "" {
		return address
	}
	return "localhost:8080"
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
