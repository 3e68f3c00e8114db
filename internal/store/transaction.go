package store

import (
	"uniaid/internal/model"
)

func (r *pgTx) CreateDonation(d *model.Donation) error {
	_, err := r.tx.ExecContext(r.ctx, `INSERT INTO donations
		(id, donor_id, donor_name, campaign_id, campaign_title, amount, donated_at, donor_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.DonorID, d.DonorName, d.CampaignID, d.CampaignTitle, d.Amount, d.Timestamp, d.DonorVerified)
	return err
}

func (r *pgTx) ListDonations() ([]model.Donation, error) {
	rows, err := r.tx.QueryContext(r.ctx, `
	SELECT id, donor_id, donor_name, campaign_id, campaign_title, amount, donated_at, donor_verified
	FROM donations
	ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []model.Donation
	for rows.Next() {
		var d model.Donation
		err := rows.Scan(&d.ID, &d.DonorID, &d.DonorName, &d.CampaignID, &d.CampaignTitle,
			&d.Amount, &d.Timestamp, &d.DonorVerified)
		if err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *pgTx) CreateTransaction(t *model.Transaction) error {
	_, err := r.tx.ExecContext(r.ctx, "INSERT INTO transactions (id, transactions_type, amount, sender_id, receiver_id, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		t.ID, t.Type, t.Amount, t.SenderID, t.ReceiverID, t.Date)
	return err
}

func (r *pgTx) ListTransactions() ([]model.Transaction, error) {
	rows, err := r.tx.QueryContext(r.ctx, `
	SELECT id, transactions_type, amount, sender_id, receiver_id, created_at
	FROM transactions
	ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		var t model.Transaction
		err := rows.Scan(&t.ID, &t.Type, &t.Amount, &t.SenderID, &t.ReceiverID, &t.Date)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}
