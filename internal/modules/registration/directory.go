// README: Firestore-backed registration directory (one document per MTOP id).
package registration

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection holds one document per registered MTOP id.
const DefaultCollection = "mtopList"

// Directory answers whether an MTOP id is registered. Errors wrap ErrLookup.
type Directory interface {
	IsRegistered(ctx context.Context, mtopID string) (bool, error)
}

type FirestoreDirectory struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreDirectory(client *firestore.Client, collection string) *FirestoreDirectory {
	if collection == "" {
		collection = DefaultCollection
	}
	return &FirestoreDirectory{client: client, collection: collection}
}

func (d *FirestoreDirectory) IsRegistered(ctx context.Context, mtopID string) (bool, error) {
	// Document ids cannot contain a slash; such an id can never be registered.
	if strings.Contains(mtopID, "/") {
		return false, nil
	}
	ref := d.client.Collection(d.collection).Doc(mtopID)
	if ref == nil {
		return false, nil
	}
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrLookup, err)
	}
	return snap.Exists(), nil
}
