package cmd

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine the next block",
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) {
	data, err := call(client().R(), http.MethodGet, "/mine")
	if err != nil {
		log.Fatal(err)
	}

	printJSON(data)
}
