// Command mailcheck sends a test message through a deployed email relay and
// prints the relay's response.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const defaultTimeout = 30 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mailcheck <relay-url> <recipient>",
		Short:        "Sends a test email through the relay",
		Long:         "Posts a {to, subject, html} payload to the relay's send-email endpoint. The URL may be the site root, the /api prefix, or the full endpoint.",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, _ := cmd.Flags().GetString("subject")
			timeout, _ := cmd.Flags().GetDuration("timeout")

			client := &http.Client{Timeout: timeout}
			status, body, err := check(client, NormalizeURL(args[0]), args[1], subject)
			out := cmd.OutOrStdout()
			if err != nil {
				fmt.Fprintf(out, "\nEXCEPTION: %v\n", err)
				return err
			}
			fmt.Fprintf(out, "\nStatus Code: %d\nResponse Body: %s\n", status, body)
			if status != http.StatusOK {
				fmt.Fprintln(out, "\nERROR: the relay answered with an error.")
				return fmt.Errorf("relay returned status %d", status)
			}
			fmt.Fprintln(out, "\nSUCCESS: the message should arrive shortly (check spam too).")
			return nil
		},
	}
	cmd.Flags().StringP("subject", "s", "Relay test from mailcheck", "Subject of the test message")
	cmd.Flags().Duration("timeout", defaultTimeout, "Request timeout")
	return cmd
}

// NormalizeURL points url at the send-email endpoint, accepting the site root
// or the /api prefix as well as the full endpoint.
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)
	switch {
	case strings.HasSuffix(url, "/send-email"):
		return url
	case strings.HasSuffix(url, "/api"):
		return url + "/send-email"
	case strings.HasSuffix(url, "/"):
		return url + "api/send-email"
	default:
		return url + "/api/send-email"
	}
}

type payload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// check posts the test payload and returns the response status and body.
func check(client *http.Client, url, to, subject string) (int, string, error) {
	body, err := json.Marshal(payload{
		To:      to,
		Subject: subject,
		HTML:    "<h1>It works!</h1><p>The email relay is answering correctly.</p>",
	})
	if err != nil {
		return 0, "", err
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(text), nil
}
