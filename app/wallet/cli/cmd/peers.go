package cmd

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "Manage the peers known by the node",
}

var peersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the peers known by the node",
	Args:  cobra.NoArgs,
	Run:   peersListRun,
}

var peersRegisterCmd = &cobra.Command{
	Use:   "register <host>",
	Short: "Register a peer with the node",
	Args:  cobra.ExactArgs(1),
	Run:   peersRegisterRun,
}

func init() {
	rootCmd.AddCommand(peersCmd)
	peersCmd.AddCommand(peersListCmd)
	peersCmd.AddCommand(peersRegisterCmd)
}

func peersListRun(cmd *cobra.Command, args []string) {
	data, err := call(client().R(), http.MethodGet, "/peers/list")
	if err != nil {
		log.Fatal(err)
	}

	printJSON(data)
}

func peersRegisterRun(cmd *cobra.Command, args []string) {
	body := struct {
		Host string `json:"host"`
	}{
		Host: args[0],
	}

	data, err := call(client().R().SetBody(body), http.MethodPost, "/peers/register")
	if err != nil {
		log.Fatal(err)
	}

	printJSON(data)
}
