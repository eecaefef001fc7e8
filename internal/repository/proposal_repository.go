package repository

import (
	"database/sql"

	"govcards/internal/model"
)

type ProposalRepository struct {
	db *sql.DB
}

func NewProposalRepository(db *sql.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// SaveDiscovered inserts a stub row for a newly discovered proposal URL.
// Returns false when the URL is already known.
func (r *ProposalRepository) SaveDiscovered(p *model.ProposalRecord) (bool, error) {
	var id int64
	err := r.db.QueryRow(`
		INSERT INTO proposal(url, source, space, external_id, topic_id, status)
		VALUES($1, $2, $3, $4, $5, $6)
		ON CONFLICT (url) DO NOTHING
		RETURNING id
	`, p.URL, p.Source, p.Space, p.ExternalID, p.TopicID, model.StatusPending).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	p.ID = id
	return true, nil
}

func (r *ProposalRepository) GetByID(id int64) (*model.ProposalRecord, error) {
	row := r.db.QueryRow(`
		SELECT id, url, source, space, external_id, topic_id, status, discovered_at
		FROM proposal
		WHERE id = $1
	`, id)

	var p model.ProposalRecord
	err := row.Scan(&p.ID, &p.URL, &p.Source, &p.Space, &p.ExternalID, &p.TopicID, &p.Status, &p.DiscoveredAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateResolved writes the normalized fields onto an existing row and
// marks it completed.
func (r *ProposalRepository) UpdateResolved(p *model.ProposalRecord) error {
	_, err := r.db.Exec(`
		UPDATE proposal
		SET title = $2, body = $3, display_status = $4, stage = $5,
		    quorum = $6, votes_for = $7, votes_against = $8, votes_abstain = $9,
		    voters = $10, end_time = $11, resolved_at = NOW(), status = $12
		WHERE id = $1
	`, p.ID, p.Title, p.Body, p.DisplayStatus, p.Stage,
		p.Quorum, p.VotesFor, p.VotesAgainst, p.VotesAbstain,
		p.Voters, p.EndTime, model.StatusCompleted)
	return err
}

func (r *ProposalRepository) UpdateStatus(id int64, status string) error {
	_, err := r.db.Exec(`UPDATE proposal SET status = $2 WHERE id = $1`, id, status)
	return err
}

func (r *ProposalRepository) SaveError(proposalID int64, message, errorType string) error {
	_, err := r.db.Exec(`
		INSERT INTO resolve_error(proposal_id, error_message, error_type, attempt_count)
		VALUES($1, $2, $3, 1)
		ON CONFLICT (proposal_id, error_type)
		DO UPDATE SET error_message = $2, attempt_count = resolve_error.attempt_count + 1, created_at = NOW()
	`, proposalID, message, errorType)
	return err
}

func (r *ProposalRepository) GetErrorCount(proposalID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(attempt_count), 0) FROM resolve_error WHERE proposal_id = $1
	`, proposalID).Scan(&count)
	return count, err
}

// GetFeed returns recently resolved proposals, newest first.
func (r *ProposalRepository) GetFeed(limit, offset int) ([]model.ProposalRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, url, source, space, external_id, title, display_status, stage,
		       quorum, votes_for, votes_against, votes_abstain, voters, end_time, resolved_at
		FROM proposal
		WHERE status = $1
		ORDER BY resolved_at DESC
		LIMIT $2 OFFSET $3
	`, model.StatusCompleted, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proposals []model.ProposalRecord
	for rows.Next() {
		var p model.ProposalRecord
		var quorum sql.NullFloat64
		var endTime, resolvedAt sql.NullTime
		err := rows.Scan(&p.ID, &p.URL, &p.Source, &p.Space, &p.ExternalID, &p.Title,
			&p.DisplayStatus, &p.Stage, &quorum,
			&p.VotesFor, &p.VotesAgainst, &p.VotesAbstain, &p.Voters, &endTime, &resolvedAt)
		if err != nil {
			return nil, err
		}
		if quorum.Valid {
			p.Quorum = &quorum.Float64
		}
		if endTime.Valid {
			p.EndTime = &endTime.Time
		}
		if resolvedAt.Valid {
			p.ResolvedAt = &resolvedAt.Time
		}
		proposals = append(proposals, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return proposals, nil
}

func (r *ProposalRepository) GetFeedTotal() (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM proposal WHERE status = $1
	`, model.StatusCompleted).Scan(&total)
	return total, err
}
