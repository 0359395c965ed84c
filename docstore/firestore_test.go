package docstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/require"
)

// Roda só com o emulador: FIRESTORE_EMULATOR_HOST=localhost:8081 go test ./docstore
func TestFirestoreStore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	project := fmt.Sprintf("vitrine-test-%d", time.Now().UnixNano())
	client, err := firestore.NewClient(ctx, project)
	require.NoError(t, err)

	s := NewFirestoreStore(client)
	t.Cleanup(func() { _ = s.Close() })

	runStoreContract(t, s)
}
