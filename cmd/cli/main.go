package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type cliOptions struct {
	baseURL string
	timeout time.Duration
}

func (o *cliOptions) client() *resty.Client {
	return resty.New().
		SetBaseURL(o.baseURL).
		SetTimeout(o.timeout).
		SetHeader("Content-Type", "application/json")
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "bankcore-cli",
		Short:         "Bankcore CLI tool",
		Long:          `A command line interface for interacting with the bankcore API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the bankcore API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}
	accountCmd.AddCommand(accountCreateCmd(opts), accountGetCmd(opts), accountListCmd(opts))

	rootCmd.AddCommand(accountCmd, withdrawCmd(opts))

	return rootCmd
}

func accountCreateCmd(opts *cliOptions) *cobra.Command {
	var (
		id             string
		currency       string
		balance        string
		ownerID        string
		ownerFirstName string
		ownerLastName  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"id":              id,
				"currency":        currency,
				"initial_balance": balance,
				"owner": map[string]string{
					"id":         ownerID,
					"first_name": ownerFirstName,
					"last_name":  ownerLastName,
				},
			}

			resp, err := opts.client().R().
				SetBody(payload).
				Post("/api/v1/accounts")
			if err != nil {
				return err
			}

			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Account ID (generated when empty)")
	cmd.Flags().StringVar(&currency, "currency", "USD", "Account currency")
	cmd.Flags().StringVar(&balance, "balance", "0", "Initial balance")
	cmd.Flags().StringVar(&ownerID, "owner-id", "", "Owner ID")
	cmd.Flags().StringVar(&ownerFirstName, "owner-first-name", "", "Owner first name")
	cmd.Flags().StringVar(&ownerLastName, "owner-last-name", "", "Owner last name")

	return cmd
}

func accountGetCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <account-id>",
		Short: "Get an account by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.client().R().
				Get("/api/v1/accounts/" + args[0])
			if err != nil {
				return err
			}

			return printResponse(cmd.OutOrStdout(), resp)
		},
	}
}

func accountListCmd(opts *cliOptions) *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.client().R().
				SetQueryParam("limit", fmt.Sprint(limit)).
				SetQueryParam("offset", fmt.Sprint(offset)).
				Get("/api/v1/accounts")
			if err != nil {
				return err
			}

			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	return cmd
}

func withdrawCmd(opts *cliOptions) *cobra.Command {
	var (
		amount         string
		currency       string
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   "withdraw <account-id>",
		Short: "Withdraw from an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := opts.client().R().
				SetBody(map[string]string{
					"amount":   amount,
					"currency": currency,
				})

			if idempotencyKey != "" {
				req.SetHeader("Idempotency-Key", idempotencyKey)
			}

			resp, err := req.Post("/api/v1/accounts/" + args[0] + "/withdrawals")
			if err != nil {
				return err
			}

			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Withdrawal amount")
	cmd.Flags().StringVar(&currency, "currency", "USD", "Withdrawal currency")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	cmd.MarkFlagRequired("amount")

	return cmd
}

// printResponse pretty-prints the API response body. Non-2xx responses
// become an error after printing so the process exits non-zero.
func printResponse(out io.Writer, resp *resty.Response) error {
	printJSON(out, resp.Body())

	if resp.IsError() {
		return fmt.Errorf("request failed with status %d", resp.StatusCode())
	}

	return nil
}

func printJSON(out io.Writer, body []byte) {
	var buf any
	if err := json.Unmarshal(body, &buf); err != nil {
		fmt.Fprintln(out, string(body))
		return
	}

	pretty, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		fmt.Fprintln(out, string(body))
		return
	}

	fmt.Fprintln(out, string(pretty))
}
