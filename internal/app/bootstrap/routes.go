// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	authfeature "github.com/eventra/eventra/internal/app/features/authapi"
	categoriesfeature "github.com/eventra/eventra/internal/app/features/categoriesapi"
	commentsfeature "github.com/eventra/eventra/internal/app/features/commentsapi"
	emailfeature "github.com/eventra/eventra/internal/app/features/emailapi"
	faqsfeature "github.com/eventra/eventra/internal/app/features/faqsapi"
	gatheringsfeature "github.com/eventra/eventra/internal/app/features/gatheringsapi"
	healthfeature "github.com/eventra/eventra/internal/app/features/health"
	likesfeature "github.com/eventra/eventra/internal/app/features/likesapi"
	participationsfeature "github.com/eventra/eventra/internal/app/features/participationsapi"
	postsfeature "github.com/eventra/eventra/internal/app/features/postsapi"
	uploadsfeature "github.com/eventra/eventra/internal/app/features/uploadsapi"
	usersfeature "github.com/eventra/eventra/internal/app/features/usersapi"
	categorystore "github.com/eventra/eventra/internal/app/store/categories"
	commentstore "github.com/eventra/eventra/internal/app/store/comments"
	faqstore "github.com/eventra/eventra/internal/app/store/faqs"
	likestore "github.com/eventra/eventra/internal/app/store/likes"
	participationstore "github.com/eventra/eventra/internal/app/store/participations"
	poststore "github.com/eventra/eventra/internal/app/store/posts"
	userstore "github.com/eventra/eventra/internal/app/store/users"
	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/eventra/eventra/internal/app/system/cloudsign"
	"github.com/eventra/eventra/internal/app/system/mailer"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. All feature routers mount under
// /api/v1; auth middleware applies per-route inside each feature.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.TokenTTL)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	var mail mailer.Mailer
	if appCfg.SendGridAPIKey != "" {
		mail, err = mailer.NewSendGrid(appCfg.SendGridAPIKey, appCfg.EmailName, appCfg.EmailSender, logger)
		if err != nil {
			logger.Error("mailer init failed", zap.Error(err))
			return nil, err
		}
	} else {
		mail = mailer.NewNop(logger)
	}

	var signer *cloudsign.Signer
	if appCfg.CloudinaryAPISecret != "" {
		signer, err = cloudsign.New(appCfg.CloudinaryCloudName, appCfg.CloudinaryAPIKey, appCfg.CloudinaryAPISecret)
		if err != nil {
			logger.Error("upload signer init failed", zap.Error(err))
			return nil, err
		}
	}

	db := deps.MongoDatabase
	users := userstore.New(db)
	posts := poststore.New(db)
	comments := commentstore.New(db)
	likes := likestore.New(db)
	categories := categorystore.New(db)
	faqs := faqstore.New(db)
	eventRegs := participationstore.NewEvents(db)
	partyRegs := participationstore.NewParties(db)
	events := eventRegs.Parents()
	parties := partyRegs.Parents()

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api/v1", func(api chi.Router) {
		authHandler := authfeature.NewHandler(users, tokens, appCfg.GoogleClientID, logger)
		api.Mount("/auth", authfeature.Routes(authHandler))

		usersHandler := usersfeature.NewHandler(users, mail, appCfg.BaseURL, logger)
		api.Mount("/users", usersfeature.Routes(usersHandler, tokens))

		postsHandler := postsfeature.NewHandler(posts, comments, likes, logger)
		api.Mount("/posts", postsfeature.Routes(postsHandler, tokens))

		eventsHandler := &gatheringsfeature.Handler{
			Store:          events,
			Categories:     categories,
			Participations: eventRegs,
			FAQs:           faqs,
			Log:            logger,
		}
		api.Mount("/events", gatheringsfeature.Routes(eventsHandler, tokens, models.RoleOrganizer))

		partiesHandler := &gatheringsfeature.Handler{
			Store:          parties,
			Categories:     categories,
			Participations: partyRegs,
			Log:            logger,
		}
		api.Mount("/parties", gatheringsfeature.Routes(partiesHandler, tokens, models.RoleBaseUser))

		commentsHandler := commentsfeature.NewHandler(comments, posts, logger)
		api.Mount("/comments", commentsfeature.Routes(commentsHandler, tokens))

		likesHandler := likesfeature.NewHandler(likes, posts, logger)
		api.Mount("/likes", likesfeature.Routes(likesHandler, tokens))

		participationsHandler := participationsfeature.NewHandler(eventRegs, partyRegs, users, logger)
		api.Mount("/participations", participationsfeature.Routes(participationsHandler, tokens))

		faqsHandler := faqsfeature.NewHandler(faqs, events, logger)
		api.Mount("/faqs", faqsfeature.Routes(faqsHandler, tokens))

		categoriesHandler := categoriesfeature.NewHandler(categories, logger)
		api.Mount("/categories", categoriesfeature.Routes(categoriesHandler, tokens))

		uploadsHandler := uploadsfeature.NewHandler(signer, logger)
		api.Mount("/uploads", uploadsfeature.Routes(uploadsHandler, tokens))

		emailHandler := emailfeature.NewHandler(users, mail, logger)
		api.Mount("/email", emailfeature.Routes(emailHandler))
	})

	return r, nil
}
