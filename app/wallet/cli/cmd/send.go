package cmd

import (
	"log"
	"net/http"

	"github.com/ardanlabs/coliseum/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	sender   string
	receiver string
	amount   int64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send transaction",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sender, "sender", "s", "", "Sender of the value. Defaults to the address of the private key.")
	sendCmd.Flags().StringVarP(&receiver, "receiver", "r", "", "Receiver of the value.")
	sendCmd.Flags().Int64VarP(&amount, "amount", "a", 0, "Value to send.")
	sendCmd.MarkFlagRequired("receiver")
}

func sendRun(cmd *cobra.Command, args []string) {
	if sender == "" {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}
		sender = crypto.PubkeyToAddress(privateKey.PublicKey).Hex()
	}

	tx := database.NewTx(sender, receiver, amount)

	data, err := call(client().R().SetBody(tx), http.MethodPost, "/tx/submit")
	if err != nil {
		log.Fatal(err)
	}

	printJSON(data)
}
