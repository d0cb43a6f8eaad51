package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/lberndt/gatehouse/internal/register/app"
	"github.com/lberndt/gatehouse/internal/register/service"
	"github.com/lberndt/gatehouse/internal/register/store"
	"github.com/lberndt/gatehouse/internal/register/store/drivers/sqlite"
	"github.com/lberndt/gatehouse/internal/register/validation"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	cmd := "serve"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		err = runServe(cfg)
	case "init-db":
		err = runInitDB(cfg)
	case "add-admin":
		err = runAddAdmin(cfg, args)
	case "list-admins":
		err = runListAdmins(cfg)
	case "remove-admin":
		err = runRemoveAdmin(cfg, args)
	case "mint-token":
		err = runMintToken(cfg)
	case "help", "-h", "--help":
		usage()
	default:
		usage()
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: gatehouse [command]

Commands:
  serve         Run the HTTP service (default)
  init-db       Apply migrations and generate the signing secret
  add-admin     Create an admin user (-username, password read from stdin)
  list-admins   List admin users
  remove-admin  Remove an admin user (-username)
  mint-token    Mint an invitation token and print it`)
}

func runServe(cfg app.Config) error {
	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run()
}

// openStore opens a migrated store for the one-shot CLI commands.
func openStore(cfg app.Config) (store.Store, error) {
	st, err := sqlite.NewStore(app.DatabaseDSN(cfg.DatabaseFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return st, nil
}

func runInitDB(cfg app.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := app.EnsureSecretKey(context.Background(), st); err != nil {
		return err
	}

	fmt.Printf("database initialized at %s\n", cfg.DatabaseFile)
	return nil
}

func runAddAdmin(cfg app.Config, args []string) error {
	fs := flag.NewFlagSet("add-admin", flag.ExitOnError)
	username := fs.String("username", "", "admin username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("add-admin: -username is required")
	}

	password, err := readPassword()
	if err != nil {
		return err
	}
	if !validation.StrongPassword(password) {
		return errors.New("password must be at least 8 characters with a digit and a special character")
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	admins := &service.AdminService{Store: st}
	if err := admins.Create(context.Background(), *username, password); err != nil {
		if errors.Is(err, service.ErrDuplicateUsername) {
			return fmt.Errorf("admin %q already exists", *username)
		}
		return err
	}

	fmt.Printf("admin %q created\n", *username)
	return nil
}

// readPassword reads the password from stdin so it never appears in argv or
// shell history.
func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runListAdmins(cfg app.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	admins, err := (&service.AdminService{Store: st}).List(context.Background())
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		fmt.Println("no admin users")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tCREATED\tLAST LOGIN")
	for _, a := range admins {
		lastLogin := "never"
		if a.LastLogin != nil {
			lastLogin = a.LastLogin.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			a.Username, a.CreatedAt.Format("2006-01-02 15:04:05"), lastLogin)
	}
	return w.Flush()
}

func runRemoveAdmin(cfg app.Config, args []string) error {
	fs := flag.NewFlagSet("remove-admin", flag.ExitOnError)
	username := fs.String("username", "", "admin username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("remove-admin: -username is required")
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ok, err := (&service.AdminService{Store: st}).Delete(context.Background(), *username)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no admin named %q", *username)
	}

	fmt.Printf("admin %q removed\n", *username)
	return nil
}

func runMintToken(cfg app.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// No origin IP: the token was minted from the command line.
	value, err := (&service.InviteService{Store: st}).Mint(context.Background(), nil)
	if err != nil {
		return err
	}

	fmt.Println(value)
	return nil
}
