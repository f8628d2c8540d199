package cmd

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Ask the node to adopt the longest valid chain among its peers",
	Run:   resolveRun,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func resolveRun(cmd *cobra.Command, args []string) {
	data, err := call(client().R(), http.MethodGet, "/consensus/resolve")
	if err != nil {
		log.Fatal(err)
	}

	printJSON(data)
}
