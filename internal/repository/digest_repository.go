package repository

import (
	"database/sql"
	"encoding/json"

	"govcards/internal/model"
)

type DigestRepository struct {
	db *sql.DB
}

func NewDigestRepository(db *sql.DB) *DigestRepository {
	return &DigestRepository{db: db}
}

func (r *DigestRepository) GetLastToProposalID() (int64, error) {
	var id int64
	err := r.db.QueryRow(`
		SELECT COALESCE(MAX(to_proposal_id), 0) FROM proposal_digest
	`).Scan(&id)
	return id, err
}

// GetProposalsForDigest returns resolved proposals newer than fromID, in
// resolution order.
func (r *DigestRepository) GetProposalsForDigest(fromID int64) ([]model.ProposalRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, url, source, title, display_status, stage
		FROM proposal
		WHERE id > $1 AND status = $2
		ORDER BY id ASC
	`, fromID, model.StatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proposals []model.ProposalRecord
	for rows.Next() {
		var p model.ProposalRecord
		err := rows.Scan(&p.ID, &p.URL, &p.Source, &p.Title, &p.DisplayStatus, &p.Stage)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return proposals, nil
}

func (r *DigestRepository) SaveDigest(digest *model.ProposalDigest) error {
	bullets, err := json.Marshal(digest.Bullets)
	if err != nil {
		return err
	}

	return r.db.QueryRow(`
		INSERT INTO proposal_digest(paragraph, bullets, proposal_count, from_proposal_id, to_proposal_id, model_used)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, digest.Paragraph, bullets, digest.ProposalCount, digest.FromProposalID, digest.ToProposalID, digest.ModelUsed).Scan(&digest.ID)
}

func (r *DigestRepository) GetDigests(limit, offset int) ([]model.ProposalDigest, error) {
	rows, err := r.db.Query(`
		SELECT id, paragraph, bullets, proposal_count, from_proposal_id, to_proposal_id, model_used, created_at
		FROM proposal_digest
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var digests []model.ProposalDigest
	for rows.Next() {
		digest, err := scanDigest(rows)
		if err != nil {
			return nil, err
		}
		digests = append(digests, *digest)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return digests, nil
}

func (r *DigestRepository) GetLatestDigest() (*model.ProposalDigest, error) {
	row := r.db.QueryRow(`
		SELECT id, paragraph, bullets, proposal_count, from_proposal_id, to_proposal_id, model_used, created_at
		FROM proposal_digest
		ORDER BY created_at DESC
		LIMIT 1
	`)

	digest, err := scanDigest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return digest, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDigest(row rowScanner) (*model.ProposalDigest, error) {
	var d model.ProposalDigest
	var bullets []byte
	err := row.Scan(&d.ID, &d.Paragraph, &bullets, &d.ProposalCount, &d.FromProposalID, &d.ToProposalID, &d.ModelUsed, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(bullets, &d.Bullets); err != nil {
		return nil, err
	}
	return &d, nil
}
