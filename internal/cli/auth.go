package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewAuthCmd создаёт группу команд для регистрации и входа.
// Полученный токен печатается в stdout, чтобы его можно было
// подставить в --token или переменную окружения.
func NewAuthCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Register and log in",
	}

	cmd.AddCommand(
		newAuthRegisterCmd(clientFn, outputFn),
		newAuthLoginCmd(clientFn, outputFn),
		newAuthMeCmd(clientFn, outputFn),
	)

	return cmd
}

func newAuthRegisterCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			auth, err := client.Register(email, password)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Registered: %s", auth.User.Email))
			printToken(out, auth)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (required)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func newAuthLoginCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			auth, err := client.Login(email, password)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Logged in: %s", auth.User.Email))
			printToken(out, auth)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (required)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func newAuthMeCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			user, err := client.Me()
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "EMAIL", "CREATED"},
				[][]string{{user.ID, user.Email, user.CreatedAt}},
				user,
			)
			return nil
		},
	}
}

// printToken выводит токен в stdout (в JSON-режиме — весь AuthResponse).
func printToken(out *Output, auth *AuthResponse) {
	if out.jsonMode {
		out.JSON(auth)
		return
	}
	fmt.Fprintln(out.w, auth.Token)
}
