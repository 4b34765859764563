package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/reelsbot/reels/internal/models"
)

// videoColumns is the set of columns assembly is allowed to write. Partial
// updates are filtered against it so a schema drift on the videos table
// degrades to a skipped field instead of a failed query.
var videoColumns = map[string]bool{
	"status":                   true,
	"assembly_progress":        true,
	"assembly_stage":           true,
	"assembly_eta_seconds":     true,
	"assembly_elapsed_seconds": true,
	"assembly_log":             true,
	"assembly_started_at":      true,
	"assembly_completed_at":    true,
	"assembly_reason":          true,
	"video_url":                true,
	"updated_at":               true,
}

// filterColumns drops fields that are not in the allowlist, returning the
// surviving fields and the names of the dropped ones.
func filterColumns(fields map[string]interface{}) (map[string]interface{}, []string) {
	kept := make(map[string]interface{}, len(fields))
	var dropped []string
	for col, val := range fields {
		if videoColumns[col] {
			kept[col] = val
		} else {
			dropped = append(dropped, col)
		}
	}
	sort.Strings(dropped)
	return kept, dropped
}

// UpdateVideo applies a partial update to a video row. Unknown columns are
// skipped with the returned dropped list so callers can log them; an update
// where every field was dropped is a no-op, not an error.
func (db *DB) UpdateVideo(ctx context.Context, sourceType models.SourceType, videoID string, update models.VideoUpdate) ([]string, error) {
	fields, dropped := filterColumns(update.Fields())
	if len(fields) == 0 {
		return dropped, nil
	}

	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	setClauses := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	for i, col := range cols {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, fields[col])
	}
	args = append(args, videoID)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d",
		videoTable(sourceType), strings.Join(setClauses, ", "), len(args),
	)

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return dropped, fmt.Errorf("failed to update video: %w", err)
	}
	return dropped, nil
}

// VideoStatus reads the current status of a video. Used by the cancellation
// poll during assembly.
func (db *DB) VideoStatus(ctx context.Context, sourceType models.SourceType, videoID string) (string, error) {
	query := fmt.Sprintf("SELECT status FROM %s WHERE id = $1", videoTable(sourceType))

	var status string
	err := db.QueryRowContext(ctx, query, videoID).Scan(&status)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("video not found")
	}
	if err != nil {
		return "", fmt.Errorf("failed to get video status: %w", err)
	}
	return status, nil
}

func videoTable(sourceType models.SourceType) string {
	if sourceType == models.SourceEpisode {
		return "episodes"
	}
	return "videos"
}
