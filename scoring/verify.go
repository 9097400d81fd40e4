package scoring

import (
	"errors"
	"log"

	"civicgrid/models"
	"civicgrid/utils"

	"gorm.io/gorm"
)

// Outcome describes what a re-evaluation decided for a task.
type Outcome struct {
	Rejected bool
	Promoted bool

	// image of a rejected task, pending deletion from the store
	removedImage *string
}

// EvaluateTask recounts the task's votes and applies the verification rules:
// a rejected task is deleted with its comments and votes, otherwise enough
// confirmations promote it to OPEN. Call this inside the transaction that
// inserted the triggering vote so the recount sees that row.
//
// A task that no longer exists is a no-op: rejection fires at most once and
// promotion cannot resurrect a deleted task.
func EvaluateTask(tx *gorm.DB, taskID uint) (Outcome, error) {
	var votes []models.Vote
	if err := tx.Where("task_id = ?", taskID).Find(&votes).Error; err != nil {
		return Outcome{}, err
	}
	tally := CountVotes(votes)

	if tally.ShouldReject() {
		return rejectTask(tx, taskID)
	}
	if tally.ShouldPromote() {
		// Idempotent; zero rows affected when the task is already OPEN or gone.
		res := tx.Model(&models.Task{}).Where("id = ?", taskID).Update("status", models.TaskStatusOpen)
		if res.Error != nil {
			return Outcome{}, res.Error
		}
		return Outcome{Promoted: true}, nil
	}
	return Outcome{}, nil
}

// rejectTask removes the task and everything hanging off it. Comments and
// votes go first so the order is explicit rather than relying on FK cascade;
// the image-store delete is deferred to CleanupImages after commit.
func rejectTask(tx *gorm.DB, taskID uint) (Outcome, error) {
	var task models.Task
	if err := tx.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Outcome{}, nil
		}
		return Outcome{}, err
	}

	if err := tx.Where("task_id = ?", taskID).Delete(&models.Comment{}).Error; err != nil {
		return Outcome{}, err
	}
	if err := tx.Where("task_id = ?", taskID).Delete(&models.Vote{}).Error; err != nil {
		return Outcome{}, err
	}
	if err := tx.Delete(&models.Task{}, taskID).Error; err != nil {
		return Outcome{}, err
	}

	log.Printf("[verify] task %d rejected by community vote", taskID)
	return Outcome{Rejected: true, removedImage: task.ImageURL}, nil
}

// CleanupImages deletes a rejected task's stored image. Best effort: the row
// deletions are already committed and irreversible, so a store failure is
// logged, not surfaced.
func (o Outcome) CleanupImages() {
	if !o.Rejected || o.removedImage == nil {
		return
	}
	if err := utils.DeleteFromS3ByURL(*o.removedImage); err != nil {
		log.Printf("[verify] image delete failed for %s: %v", *o.removedImage, err)
	}
}
