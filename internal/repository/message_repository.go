package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/01moynul/campusmart/internal/models"
)

const messageColumns = "id, sender_id, receiver_id, product_id, content, is_read, created_at"

type MessageRepo struct {
	db *sqlx.DB
}

func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

func (r *MessageRepo) Create(ctx context.Context, m *models.Message) error {
	now := time.Now()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (sender_id, receiver_id, product_id, content, is_read, created_at) VALUES (?, ?, ?, ?, FALSE, ?)",
		m.SenderID, m.ReceiverID, m.ProductID, m.Content, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = id
	m.IsRead = false
	m.CreatedAt = now
	return r.attachParties(ctx, []*models.Message{m})
}

func (r *MessageRepo) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	var m models.Message
	err := r.db.GetContext(ctx, &m, "SELECT "+messageColumns+" FROM messages WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.attachParties(ctx, []*models.Message{&m}); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListForUser returns every message the user sent or received, newest first.
func (r *MessageRepo) ListForUser(ctx context.Context, userID int64) ([]models.Message, error) {
	msgs := []models.Message{}
	err := r.db.SelectContext(ctx, &msgs,
		"SELECT "+messageColumns+" FROM messages WHERE sender_id = ? OR receiver_id = ? ORDER BY created_at DESC, id DESC",
		userID, userID)
	if err != nil {
		return nil, err
	}
	if err := r.attachParties(ctx, messagePtrs(msgs)); err != nil {
		return nil, err
	}
	return msgs, nil
}

func conversationScope(a, b int64, productID *int64) squirrel.Sqlizer {
	pair := squirrel.Or{
		squirrel.Eq{"sender_id": a, "receiver_id": b},
		squirrel.Eq{"sender_id": b, "receiver_id": a},
	}
	if productID == nil {
		return pair
	}
	return squirrel.And{pair, squirrel.Eq{"product_id": *productID}}
}

// Conversation returns the messages between a and b oldest first,
// optionally limited to one product.
func (r *MessageRepo) Conversation(ctx context.Context, a, b int64, productID *int64) ([]models.Message, error) {
	msgs := []models.Message{}
	err := selectBuilt(ctx, r.db, &msgs, qb.Select("id", "sender_id", "receiver_id", "product_id", "content", "is_read", "created_at").
		From("messages").
		Where(conversationScope(a, b, productID)).
		OrderBy("created_at ASC", "id ASC"))
	if err != nil {
		return nil, err
	}
	if err := r.attachParties(ctx, messagePtrs(msgs)); err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkConversationRead flips every unread message from -> to in one update
// and returns how many rows changed.
func (r *MessageRepo) MarkConversationRead(ctx context.Context, from, to int64, productID *int64) (int64, error) {
	q := qb.Update("messages").
		Set("is_read", true).
		Where(squirrel.Eq{"sender_id": from, "receiver_id": to, "is_read": false})
	if productID != nil {
		q = q.Where(squirrel.Eq{"product_id": *productID})
	}
	res, err := execBuilt(ctx, r.db, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *MessageRepo) MarkRead(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE messages SET is_read = TRUE WHERE id = ?", id)
	return err
}

func messagePtrs(msgs []models.Message) []*models.Message {
	out := make([]*models.Message, len(msgs))
	for i := range msgs {
		out[i] = &msgs[i]
	}
	return out
}

// attachParties fills sender, receiver and product with one query per
// table.
func (r *MessageRepo) attachParties(ctx context.Context, msgs []*models.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	userIDs := make([]int64, 0, 2*len(msgs))
	seenUser := map[int64]bool{}
	var productIDs []int64
	seenProduct := map[int64]bool{}
	for _, m := range msgs {
		for _, id := range []int64{m.SenderID, m.ReceiverID} {
			if !seenUser[id] {
				seenUser[id] = true
				userIDs = append(userIDs, id)
			}
		}
		if m.ProductID != nil && !seenProduct[*m.ProductID] {
			seenProduct[*m.ProductID] = true
			productIDs = append(productIDs, *m.ProductID)
		}
	}

	var refs []models.UserRef
	if err := selectBuilt(ctx, r.db, &refs, qb.Select("id", "name", "username").
		From("users").
		Where(squirrel.Eq{"id": userIDs})); err != nil {
		return err
	}
	users := make(map[int64]*models.UserRef, len(refs))
	for i := range refs {
		users[refs[i].ID] = &refs[i]
	}

	products, err := loadProducts(ctx, r.db, productIDs)
	if err != nil {
		return err
	}

	for _, m := range msgs {
		m.Sender = users[m.SenderID]
		m.Receiver = users[m.ReceiverID]
		if m.ProductID != nil {
			m.Product = products[*m.ProductID]
		}
	}
	return nil
}
