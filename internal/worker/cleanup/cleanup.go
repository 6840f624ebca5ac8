// Package cleanup は孤児化した予約の自動削除ジョブを提供する。
// フライト削除時に予約は削除されないため、参照先フライトが存在しない
// 予約が残存する。このジョブが日次バッチでそれらを削除する。
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SweepJob は参照先フライトが存在しない予約の自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type SweepJob struct {
	db     Executor
	logger *slog.Logger
}

// NewSweepJob は新しいSweepJobを生成する。
func NewSweepJob(db Executor, logger *slog.Logger) *SweepJob {
	return &SweepJob{
		db:     db,
		logger: logger,
	}
}

// Run は孤児化した予約を削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *SweepJob) Run(ctx context.Context) error {
	start := time.Now()

	query := `DELETE FROM bookings b
		WHERE NOT EXISTS (SELECT 1 FROM flights f WHERE f.id = b.flight_id)`
	result, err := j.db.ExecContext(ctx, query)
	if err != nil {
		j.logger.Error("孤児予約スイープジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("孤児予約スイープの実行に失敗: %w", err)
	}

	deletedCount, err := result.RowsAffected()
	if err != nil {
		j.logger.Error("削除件数の取得に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("削除件数の取得に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("孤児予約スイープジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}
