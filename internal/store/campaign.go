package store

import (
	"database/sql"
	"errors"

	"uniaid/internal/model"
)

const campaignColumns = `id, fundraiser_id, fundraiser_name, title, description, goal_amount, raised_amount,
	status, category, beneficiary, deadline, created_at, image`

func scanCampaign(row rowScanner) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(&c.ID, &c.FundraiserID, &c.FundraiserName, &c.Title, &c.Description,
		&c.GoalAmount, &c.RaisedAmount, &c.Status, &c.Category, &c.Beneficiary,
		&c.Deadline, &c.CreatedAt, &c.Image)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *pgTx) CreateCampaign(c *model.Campaign) error {
	_, err := r.tx.ExecContext(r.ctx, `INSERT INTO campaigns(`+campaignColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.ID, c.FundraiserID, c.FundraiserName, c.Title, c.Description, c.GoalAmount, c.RaisedAmount,
		c.Status, c.Category, c.Beneficiary, c.Deadline, c.CreatedAt, c.Image)
	return err
}

func (r *pgTx) UpdateCampaign(c *model.Campaign) error {
	res, err := r.tx.ExecContext(r.ctx, `UPDATE campaigns
		SET title = $2, description = $3, goal_amount = $4, raised_amount = $5, status = $6,
			category = $7, beneficiary = $8, deadline = $9, image = $10
		WHERE id = $1`,
		c.ID, c.Title, c.Description, c.GoalAmount, c.RaisedAmount, c.Status,
		c.Category, c.Beneficiary, c.Deadline, c.Image)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

func (r *pgTx) GetCampaign(id string) (*model.Campaign, error) {
	c, err := scanCampaign(r.tx.QueryRowContext(r.ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *pgTx) ListCampaigns() ([]model.Campaign, error) {
	rows, err := r.tx.QueryContext(r.ctx, `SELECT `+campaignColumns+` FROM campaigns ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []model.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return campaigns, nil
}
