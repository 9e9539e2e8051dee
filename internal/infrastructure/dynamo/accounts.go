package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/travel-atlas/internal/domain"
	"github.com/travel-atlas/internal/pkg/clock"
)

// accountItem is the stored shape of an account. otp_code and otp_expires_at
// are written and removed together.
type accountItem struct {
	AccountID     string     `dynamodbav:"account_id"`
	Email         string     `dynamodbav:"email"`
	EmailVerified bool       `dynamodbav:"email_verified"`
	OTPCode       *string    `dynamodbav:"otp_code,omitempty"`
	OTPExpiresAt  *time.Time `dynamodbav:"otp_expires_at,omitempty"`
	CreatedAt     time.Time  `dynamodbav:"created_at"`
	UpdatedAt     time.Time  `dynamodbav:"updated_at"`
}

func toAccountItem(a *domain.Account) accountItem {
	it := accountItem{
		AccountID: a.AccountID,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	switch st := a.State.(type) {
	case domain.Verified:
		it.EmailVerified = true
	case domain.Unverified:
		code, exp := st.Code, st.ExpiresAt.UTC()
		it.OTPCode = &code
		it.OTPExpiresAt = &exp
	}
	return it
}

func (it accountItem) toDomain() (*domain.Account, error) {
	if (it.OTPCode == nil) != (it.OTPExpiresAt == nil) {
		return nil, fmt.Errorf("account %s has otp_code without otp_expires_at", it.AccountID)
	}
	a := &domain.Account{
		AccountID: it.AccountID,
		Email:     it.Email,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
	switch {
	case it.EmailVerified:
		a.State = domain.Verified{}
	case it.OTPCode != nil:
		a.State = domain.Unverified{Code: *it.OTPCode, ExpiresAt: *it.OTPExpiresAt}
	default:
		// Unverified with no code on record; nothing can match it until a resend.
		a.State = domain.Unverified{}
	}
	return a, nil
}

// AccountRepo provides typed DynamoDB operations for the accounts table.
// PK: account_id, GSI email-index on email.
type AccountRepo struct {
	client    API
	tableName string
	clock     clock.Clocker
}

func NewAccountRepo(client API, tableName string) *AccountRepo {
	return &AccountRepo{client: client, tableName: tableName, clock: clock.New()}
}

// WithClock replaces the clock used to stamp updated_at.
func (r *AccountRepo) WithClock(c clock.Clocker) *AccountRepo {
	r.clock = c
	return r
}

// Insert writes a new account. It fails with domain.ErrConflict if the id is taken.
func (r *AccountRepo) Insert(ctx context.Context, a *domain.Account) error {
	item, err := attributevalue.MarshalMap(toAccountItem(a))
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": fieldAccountID},
	})
	return conditionFailed(err)
}

func (r *AccountRepo) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldAccountID, accountID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("account %s: %w", accountID, domain.ErrAccountNotFound)
	}
	var it accountItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, err
	}
	return it.toDomain()
}

// GetByEmail resolves the account id through the email GSI and then reads the
// item itself with a consistent read, since GSI reads are eventually consistent.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexEmail),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": fieldEmail},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: email}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("email %s: %w", email, domain.ErrAccountNotFound)
	}
	idAttr, ok := out.Items[0][fieldAccountID].(*types.AttributeValueMemberS)
	if !ok {
		return nil, fmt.Errorf("email-index item without %s", fieldAccountID)
	}
	return r.Get(ctx, idAttr.Value)
}

// MarkVerified sets email_verified and removes the code pair, provided the
// stored code is still expectedCode. A replaced code yields domain.ErrConflict.
func (r *AccountRepo) MarkVerified(ctx context.Context, accountID, expectedCode string) error {
	return r.update(ctx, accountID, map[string]interface{}{
		fieldEmailVerified: true,
		fieldOTPCode:       nil,
		fieldOTPExpiresAt:  nil,
	}, map[string]interface{}{
		fieldOTPCode: expectedCode,
	})
}

// ReplaceCode overwrites the pending code pair of an unverified account.
// A verified (or missing) account yields domain.ErrConflict.
func (r *AccountRepo) ReplaceCode(ctx context.Context, accountID, code string, expiresAt time.Time) error {
	return r.update(ctx, accountID, map[string]interface{}{
		fieldOTPCode:      code,
		fieldOTPExpiresAt: expiresAt.UTC(),
	}, map[string]interface{}{
		fieldEmailVerified: false,
	})
}

func (r *AccountRepo) update(ctx context.Context, accountID string, updates, conditions map[string]interface{}) error {
	updates[fieldUpdatedAt] = r.clock.Now().UTC()
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	cond, err := ue.withCondition(conditions)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldAccountID, accountID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String(cond),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return conditionFailed(err)
}
