package cmd

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var validateChain bool

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the chain held by the node",
	Run:   chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
	chainCmd.Flags().BoolVarP(&validateChain, "validate", "v", false, "Only report whether the chain is valid.")
}

func chainRun(cmd *cobra.Command, args []string) {
	path := "/chain"
	if validateChain {
		path = "/chain/validate"
	}

	data, err := call(client().R(), http.MethodGet, path)
	if err != nil {
		log.Fatal(err)
	}

	printJSON(data)
}
