package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nykka/internal/database"
	"nykka/internal/session"
	"nykka/pkg/utils"
)

var apiURL string

type ResponseError struct {
	Message string `json:"message"`
}

type TokenResponse struct {
	Message     string    `json:"message"`
	LoginCount  int       `json:"login_count"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func sessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".nykka", "session.json")
}

// currentSession loads the stored session and clears it when it has expired,
// so every command sees either an anonymous or an authenticated session.
func currentSession() *session.Session {
	sess, err := session.Load(sessionPath())
	if err != nil {
		return nil
	}
	if sess.State(time.Now()) == session.Expired {
		fmt.Println("Session expired, sign in again.")
		session.Clear(sessionPath())
		return nil
	}
	return sess
}

var apiServiceBase = func() *resty.Client {
	client := resty.New().
		SetBaseURL(apiURL).
		SetHeader("Accept", "application/json").
		SetError(&ResponseError{}).
		OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
			if resp.StatusCode() >= 400 {
				return fmt.Errorf("%s", resp.Error().(*ResponseError).Message)
			}

			return nil
		})

	if sess := currentSession(); sess.State(time.Now()) == session.Authenticated {
		client.SetAuthToken(sess.Token)
	}

	return client
}

func promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(password), nil
}

var rootCmd = &cobra.Command{
	Use:   "nykka",
	Short: "Nykka user dashboard CLI",
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in and start a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]

		password, err := promptPassword("Password")
		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		resp, err := apiServiceBase().R().
			SetFormData(map[string]string{
				"email":    email,
				"password": password,
			}).
			SetResult(&TokenResponse{}).
			Post("/token")

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		token := resp.Result().(*TokenResponse)

		sess := session.New(email, token.AccessToken, time.Now())
		if err := sess.Save(sessionPath()); err != nil {
			fmt.Println("Error:", err)
			return
		}

		fmt.Println(token.Message)
		fmt.Println("Login count :", token.LoginCount)
		fmt.Println("Session ends:", sess.ExpiresAt.Format(time.Kitchen))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		if err := session.Clear(sessionPath()); err != nil {
			fmt.Println("Error:", err)
			return
		}
		fmt.Println("Logged out.")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := apiServiceBase().R().
			SetResult(&database.User{}).
			Get("/users/me")

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		printUser(resp.Result().(*database.User))
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := apiServiceBase().R().
			SetResult(&[]database.User{}).
			Get("/users")

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		users := *resp.Result().(*[]database.User)
		for _, user := range users {
			fmt.Printf("%-4d %-24s %-32s logins=%d\n", user.ID, user.Name, user.Email, user.LoginCount)
		}
	},
}

var userCreateCmd = &cobra.Command{
	Use:   "create <name> <email>",
	Short: "Create a new user",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		email := args[1]
		password := utils.GenerateRandomString(12)

		resp, err := apiServiceBase().R().
			SetBody(map[string]string{
				"name":     name,
				"email":    email,
				"password": password,
			}).
			SetResult(&database.User{}).
			Post("/users")

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		user := resp.Result().(*database.User)

		fmt.Println("User ID  :", user.ID)
		fmt.Println("Name     :", user.Name)
		fmt.Println("Email    :", user.Email)
		fmt.Println("Password :", password)
	},
}

var userGetCmd = &cobra.Command{
	Use:   "get <user_id>",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := apiServiceBase().R().
			SetResult(&database.User{}).
			Get(fmt.Sprintf("/users/%s", args[0]))

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		printUser(resp.Result().(*database.User))
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update <user_id> <name> <email>",
	Short: "Replace a user's name, email and password",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		password, err := promptPassword("New password")
		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		resp, err := apiServiceBase().R().
			SetBody(map[string]string{
				"name":     args[1],
				"email":    args[2],
				"password": password,
			}).
			SetResult(&database.User{}).
			Put(fmt.Sprintf("/users/%s", args[0]))

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		printUser(resp.Result().(*database.User))
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <user_id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := apiServiceBase().R().
			SetResult(&database.User{}).
			Delete(fmt.Sprintf("/users/%s", args[0]))

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		user := resp.Result().(*database.User)
		fmt.Printf("Deleted user %d (%s)\n", user.ID, user.Email)
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Show a login-count bar chart",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := apiServiceBase().R().
			SetResult(&[]database.User{}).
			Get("/users")

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		users := *resp.Result().(*[]database.User)
		for _, user := range users {
			bar := user.LoginCount
			if bar > 60 {
				bar = 60
			}
			fmt.Printf("%-24s %s %d\n", user.Name, strings.Repeat("#", bar), user.LoginCount)
		}
	},
}

func printUser(user *database.User) {
	fmt.Println("User ID    :", user.ID)
	fmt.Println("Name       :", user.Name)
	fmt.Println("Email      :", user.Email)
	fmt.Println("Created at :", user.CreatedAt.Format(time.RFC3339))
	fmt.Println("Login count:", user.LoginCount)
}

func main() {
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userGetCmd)
	userCmd.AddCommand(userUpdateCmd)
	userCmd.AddCommand(userDeleteCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(chartCmd)

	rootCmd.PersistentFlags().StringVarP(&apiURL, "api", "a", "http://localhost:8000", "API base URL")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
