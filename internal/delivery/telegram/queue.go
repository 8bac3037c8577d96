package telegram

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// userQueues polling rejimida har bir foydalanuvchi update'lari kelish
// tartibida, bittadan qayta ishlanadi; turli foydalanuvchilar parallel.
// Each user gets one draining goroutine while updates are pending.
type userQueues struct {
	mu      sync.Mutex
	pending map[int64][]tgbotapi.Update
	run     func(tgbotapi.Update)
}

func newUserQueues(run func(tgbotapi.Update)) *userQueues {
	return &userQueues{pending: make(map[int64][]tgbotapi.Update), run: run}
}

// push queues u behind earlier updates of the same user.
func (q *userQueues) push(u tgbotapi.Update) {
	key := updateUserID(u)
	q.mu.Lock()
	queue, draining := q.pending[key]
	q.pending[key] = append(queue, u)
	q.mu.Unlock()
	if !draining {
		go q.drain(key)
	}
}

func (q *userQueues) drain(key int64) {
	for {
		q.mu.Lock()
		queue := q.pending[key]
		if len(queue) == 0 {
			delete(q.pending, key)
			q.mu.Unlock()
			return
		}
		u := queue[0]
		q.pending[key] = queue[1:]
		q.mu.Unlock()

		q.run(u)
	}
}

// size navbatdagi foydalanuvchilar soni
func (q *userQueues) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// updateUserID updates without a sender share key 0.
func updateUserID(u tgbotapi.Update) int64 {
	switch {
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil:
		return u.CallbackQuery.From.ID
	case u.Message != nil && u.Message.From != nil:
		return u.Message.From.ID
	}
	return 0
}
