package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/empcore/employee-management/internal/core/domain"
)

const approvalCodeCollection = "approval_codes"

// ApprovalCodeRepository implements ports.ApprovalCodeRepository on MongoDB.
type ApprovalCodeRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewApprovalCodeRepository(db *mongo.Database) *ApprovalCodeRepository {
	return &ApprovalCodeRepository{coll: db.Collection(approvalCodeCollection), now: time.Now}
}

type mongoApprovalCode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Code      string             `bson:"code"`
	Role      string             `bson:"role"`
	ExpiresAt time.Time          `bson:"expiresAt"`
	UsedAt    *time.Time         `bson:"usedAt"`
	IssuedBy  string             `bson:"issuedBy"`
}

func (r *ApprovalCodeRepository) Create(ctx context.Context, code *domain.ApprovalCode) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoApprovalCode{
		Code:      code.Code,
		Role:      code.Role,
		ExpiresAt: code.ExpiresAt.UTC(),
		UsedAt:    nil,
		IssuedBy:  code.IssuedBy,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert approval code: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert approval code: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// ValidateAndConsume performs the whole redemption check as one conditional
// update: the filter matches only an unconsumed, unexpired code for the
// requested role, and the update stamps usedAt. MongoDB applies this
// atomically per document, so two concurrent redemptions of the same code
// cannot both match. No mutation happens on a failed match.
func (r *ApprovalCodeRepository) ValidateAndConsume(ctx context.Context, code, role string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := r.now().UTC()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"code":      code,
			"role":      role,
			"usedAt":    nil,
			"expiresAt": bson.M{"$gt": now},
		},
		bson.M{"$set": bson.M{"usedAt": now}},
	)
	if err != nil {
		return fmt.Errorf("consume approval code: %w", err)
	}
	if res.ModifiedCount == 0 {
		return domain.ErrCodeInvalid
	}
	return nil
}

// EnsureIndexes creates the lookup index on the code value. Expired codes are
// not deleted; they simply never match the redemption filter again.
func (r *ApprovalCodeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "code", Value: 1}},
	})
	return err
}
