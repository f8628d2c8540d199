package validate_test

import (
	"testing"

	"github.com/ardanlabs/coliseum/business/sys/validate"
	"github.com/ardanlabs/coliseum/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Check(t *testing.T) {
	t.Log("Given the need to validate submitted transactions.")
	{
		if err := validate.Check(database.NewTx("A", "B", 10)); err != nil {
			t.Fatalf("\t%s\tShould accept a complete transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept a complete transaction.", success)

		err := validate.Check(database.Tx{Sender: "A", Amount: 10})
		if !validate.IsFieldErrors(err) {
			t.Fatalf("\t%s\tShould reject a transaction without a receiver: got %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a transaction without a receiver.", success)

		fields := validate.GetFieldErrors(err).Fields()
		if _, exists := fields["receiver"]; !exists || len(fields) != 1 {
			t.Fatalf("\t%s\tShould name the field by its json tag: got %v", failed, fields)
		}
		t.Logf("\t%s\tShould name the field by its json tag.", success)
	}
}

func Test_Host(t *testing.T) {
	tt := []struct {
		host string
		ok   bool
	}{
		{"10.0.0.1:9080", true},
		{"node1:9080", true},
		{"", false},
		{"no-port", false},
	}

	for _, tst := range tt {
		err := validate.Host(tst.host)
		if (err == nil) != tst.ok {
			t.Fatalf("\t%s\tShould validate host %q as %v: got %v", failed, tst.host, tst.ok, err)
		}
		t.Logf("\t%s\tShould validate host %q as %v.", success, tst.host, tst.ok)
	}
}
