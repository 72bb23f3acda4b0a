package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taskdeck/taskdeck/internal/store"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	RunE:  runLogout,
}

func runLogin(cmd *cobra.Command, args []string) error {
	storage, err := openStorage()
	if err != nil {
		return fmt.Errorf("failed to open local storage: %w", err)
	}
	defer func() {
		_ = storage.Close()
	}()

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	password := string(passwordBytes)
	fmt.Println()

	st := store.New(newService(), storage)

	fmt.Println("Signing in...")
	if err := st.Login(cmd.Context(), email, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("Signed in as %s\n", email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	storage, err := openStorage()
	if err != nil {
		return fmt.Errorf("failed to open local storage: %w", err)
	}
	defer func() {
		_ = storage.Close()
	}()

	st := store.New(newService(), storage)
	if !st.Snapshot().Auth.IsAuthenticated {
		fmt.Println("Not signed in.")
		return nil
	}

	st.Logout()
	fmt.Println("Signed out.")
	return nil
}
