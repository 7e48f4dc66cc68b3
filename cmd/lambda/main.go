package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/app"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/config"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/server"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"
)

var RespOK = &events.APIGatewayProxyResponse{
	Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
	StatusCode: http.StatusOK,
	Body:       "ok",
}

var respUnauthorized = &events.APIGatewayProxyResponse{
	StatusCode: http.StatusUnauthorized,
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if err := config.SetupLogging(cfg.LogLevel); err != nil {
		log.WithError(err).Fatal("invalid LOG_LEVEL")
	}

	b, err := bot.New(cfg.BotToken, bot.WithSkipGetMe())
	if err != nil {
		log.WithError(err).Fatal("create bot")
	}

	a, err := app.New(cfg, b)
	if err != nil {
		log.WithError(err).Fatal("init app")
	}
	a.Start()

	lambda.Start(newHandler(cfg.WebhookSecret, a.UpdateHandler()))
}

type proxyHandler func(ctx context.Context, req events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error)

func newHandler(secret string, handle bot.HandlerFunc) proxyHandler {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error) {
		if !server.ValidSecret(header(req.Headers, server.SecretTokenHeader), secret) {
			log.WithField("context", "lambda").Warn("bad secret token")
			return respUnauthorized, nil
		}

		update := &tgmodels.Update{}
		if err := json.Unmarshal([]byte(req.Body), update); err != nil {
			log.WithField("context", "lambda").WithError(err).Warn("undecodable update")
			return RespOK, nil
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithField("context", "lambda").Errorf("update %d panicked: %v", update.ID, r)
				}
			}()
			handle(ctx, nil, update)
		}()
		return RespOK, nil
	}
}

func header(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
