// Package cmd contains the wallet app for talking to a node.
package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var (
	url     string
	keyPath string
)

const (
	keyExtenstion = ".ecdsa"
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	rootCmd.PersistentFlags().StringVarP(&keyPath, "path", "p", "zblock/accounts/private.ecdsa", "Path to the private key.")
}

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Your simple coliseum wallet",
}

// Execute runs the wallet command line.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func getPrivateKeyPath() string {
	if !strings.HasSuffix(keyPath, keyExtenstion) {
		return keyPath + keyExtenstion
	}

	return keyPath
}

// =============================================================================

// errorResponse is the form errors come back from the node in.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// client returns a resty client pointed at the v1 api of the node.
func client() *resty.Client {
	return resty.New().
		SetBaseURL(strings.TrimSuffix(url, "/")+"/v1").
		SetTimeout(time.Minute).
		SetHeader("Accept", "application/json")
}

// call performs the request and returns the raw body of a successful
// response.
func call(req *resty.Request, method string, path string) ([]byte, error) {
	var er errorResponse
	req.SetError(&er)

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.IsError() {
		if er.Error == "" {
			return nil, fmt.Errorf("%s %s: %s", method, path, resp.Status())
		}
		if len(er.Fields) > 0 {
			return nil, fmt.Errorf("%s: %v", er.Error, er.Fields)
		}
		return nil, fmt.Errorf("%s", er.Error)
	}

	return resp.Body(), nil
}

// printJSON writes the json document indented to stdout.
func printJSON(data []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		fmt.Println(string(data))
		return
	}

	fmt.Println(buf.String())
}
