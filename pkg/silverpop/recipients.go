package silverpop

import (
	"context"

	"github.com/natserract/silverpop/pkg/codec"
	"go.uber.org/zap"
)

// GetUserInfo retrieves the recipient identified by email on listID. The
// returned result carries the recipient fields (EMAIL, RecipientId, ...)
// and its custom columns under Columns().
func (c *Client) GetUserInfo(ctx context.Context, listID, email string) (Result, error) {
	if err := checkRecipient(listID, email); err != nil {
		return nil, err
	}

	c.logger.Info("Getting recipient", zap.String("list_id", listID), zap.String("email", email))
	envelope := NewEnvelope("SelectRecipientData", codec.Fields{
		{Name: "LIST_ID", Value: listID},
		{Name: "EMAIL", Value: email},
	})

	result, _, err := c.SubmitRequest(ctx, envelope, true, false)
	if err != nil {
		c.logger.Error("Get recipient failed", zap.Error(err), zap.String("list_id", listID), zap.String("email", email))
		return nil, err
	}

	c.logger.Info("Successfully retrieved recipient",
		zap.String("list_id", listID),
		zap.Int("columns_count", len(result.Columns())))

	return result, nil
}

// AddUser adds email to listID with data as custom columns. A nil data map
// adds the recipient with only its email.
func (c *Client) AddUser(ctx context.Context, listID, email string, data map[string]string) (bool, error) {
	if err := checkRecipient(listID, email); err != nil {
		return false, err
	}

	c.logger.Info("Adding recipient",
		zap.String("list_id", listID),
		zap.String("email", email),
		zap.Int("columns_count", len(data)))

	columns := append([]Column{{Name: "EMAIL", Value: email}}, ToColumns(data)...)
	envelope := NewEnvelope("AddRecipient", codec.Fields{
		{Name: "LIST_ID", Value: listID},
		{Name: "CREATED_FROM", Value: CreatedFromAPI},
		{Name: keyColumn, Value: columnFields(columns)},
	})

	_, ok, err := c.SubmitRequest(ctx, envelope, true, false)
	if err != nil {
		c.logger.Error("Add recipient failed", zap.Error(err), zap.String("list_id", listID), zap.String("email", email))
		return false, err
	}

	c.logger.Info("Successfully added recipient", zap.String("list_id", listID))
	return ok, nil
}

// UpdateUser updates the columns of the recipient identified by email on
// listID. data must hold at least one column.
func (c *Client) UpdateUser(ctx context.Context, listID, email string, data map[string]string) (bool, error) {
	if err := checkRecipient(listID, email); err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, preconditionf("update data must not be empty")
	}

	c.logger.Info("Updating recipient",
		zap.String("list_id", listID),
		zap.String("email", email),
		zap.Int("columns_count", len(data)))

	envelope := NewEnvelope("UpdateRecipient", codec.Fields{
		{Name: "LIST_ID", Value: listID},
		{Name: "CREATED_FROM", Value: CreatedFromAPI},
		{Name: "OLD_EMAIL", Value: email},
		{Name: keyColumn, Value: columnFields(ToColumns(data))},
	})

	_, ok, err := c.SubmitRequest(ctx, envelope, true, false)
	if err != nil {
		c.logger.Error("Update recipient failed", zap.Error(err), zap.String("list_id", listID), zap.String("email", email))
		return false, err
	}

	c.logger.Info("Successfully updated recipient", zap.String("list_id", listID))
	return ok, nil
}

// RemoveUser removes email from listID.
func (c *Client) RemoveUser(ctx context.Context, listID, email string) (bool, error) {
	if err := checkRecipient(listID, email); err != nil {
		return false, err
	}

	c.logger.Info("Removing recipient", zap.String("list_id", listID), zap.String("email", email))
	envelope := NewEnvelope("RemoveRecipient", codec.Fields{
		{Name: "LIST_ID", Value: listID},
		{Name: "EMAIL", Value: email},
	})

	_, ok, err := c.SubmitRequest(ctx, envelope, true, false)
	if err != nil {
		c.logger.Error("Remove recipient failed", zap.Error(err), zap.String("list_id", listID), zap.String("email", email))
		return false, err
	}

	c.logger.Info("Successfully removed recipient", zap.String("list_id", listID))
	return ok, nil
}

func checkRecipient(listID, email string) error {
	if listID == "" {
		return preconditionf("list id is required")
	}
	if email == "" {
		return preconditionf("email is required")
	}
	return nil
}
