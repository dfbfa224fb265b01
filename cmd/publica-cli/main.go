// Publica CLI — инструмент командной строки для управления
// постами через HTTP API.
//
// Использование:
//
//	publica [--api-url URL] [--token TOKEN] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	auth       Регистрация и вход
//	post       Управление постами
//	dashboard  Статистика и ближайшие публикации
//
// Токен можно передать через переменную окружения PUBLICA_TOKEN.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Publica/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var token string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "publica",
		Short:         "Publica CLI — social media scheduling tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Access token (default $PUBLICA_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client {
		t := token
		if t == "" {
			t = os.Getenv("PUBLICA_TOKEN")
		}
		return cli.NewClient(apiURL, t)
	}
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewAuthCmd(clientFn, outputFn),
		cli.NewPostCmd(clientFn, outputFn),
		cli.NewDashboardCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
