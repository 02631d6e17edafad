package consumerWorker

import (
	"context"
	"encoding/json"

	"github.com/wb-go/wbf/zlog"

	"workshophub/internal/dto"
	"workshophub/internal/mailer"
	"workshophub/internal/rabbit"
	"workshophub/internal/repo"
)

// Reader consumes registration notices and sends the matching status
// email. Mail delivery is best-effort: a failed send is logged and the
// message is still acked, so the workflow never depends on SMTP.
type Reader struct {
	RMQ    *rabbit.Client
	repo   repo.Repository
	mail   *mailer.Mailer
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, repo repo.Repository, mail *mailer.Mailer) *Reader {
	return &Reader{
		RMQ:  rmq,
		repo: repo,
		mail: mail,
		done: make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("notification reader started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var msg dto.RegistrationNoticeMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("Failed to unmarshal message: %s", string(body))
				return err
			}

			zlog.Logger.Info().
				Int64("registration_id", msg.RegistrationID).
				Str("status", msg.Status).
				Msg("received registration notice")

			user, err := r.repo.GetUserByID(cctx, msg.UserID)
			if err != nil {
				zlog.Logger.Error().
					Err(err).
					Int64("user_id", msg.UserID).
					Msg("Failed to get user from DB in worker")
				return nil
			}

			workshop, err := r.repo.GetWorkshopByID(cctx, msg.WorkshopID)
			if err != nil {
				zlog.Logger.Error().
					Err(err).
					Int64("workshop_id", msg.WorkshopID).
					Msg("Failed to get workshop from DB in worker")
				return nil
			}

			if err := r.mail.SendRegistrationEmail(workshop.Title, msg.Status, user.Email); err != nil {
				zlog.Logger.Warn().
					Err(err).
					Msg("Failed to send notification e-mail")
			}

			return nil
		}

		if err := r.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("notification reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
