package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"linkhub/internal/config"
	"linkhub/internal/logger"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

func main() {
	reset := flag.Bool("reset", false, "delete every topic and subscription on the emulator first")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, relying on system environment variables.")
	}

	logger := logger.New()
	logger.Info().Msg("Starting Pub/Sub setup for the local emulator")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}
	if cfg.GCPProjectID == "" {
		logger.Fatal().Msg("GCP_PROJECT_ID is not set")
	}
	if cfg.PubSubEmulatorHost == "" {
		logger.Fatal().Msg("PUBSUB_EMULATOR_HOST must be set; this tool only targets the emulator")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID,
		option.WithEndpoint(cfg.PubSubEmulatorHost),
		option.WithoutAuthentication(),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create Pub/Sub client")
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close Pub/Sub client")
		}
	}()

	if *reset {
		resetEmulator(ctx, client, logger)
	}
	if err := ensureBillingTopic(ctx, client, logger, cfg.PubSubBillingTopic); err != nil {
		logger.Fatal().Err(err).Str("topic", cfg.PubSubBillingTopic).Msg("Pub/Sub setup failed")
	}
	logger.Info().Msg("Pub/Sub setup complete")
}

// resetEmulator deletes all subscriptions, then all topics.
func resetEmulator(ctx context.Context, client *pubsub.Client, logger zerolog.Logger) {
	subs := client.Subscriptions(ctx)
	for {
		sub, err := subs.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to list subscriptions")
		}
		if err := sub.Delete(ctx); err != nil {
			logger.Warn().Err(err).Str("subscription", sub.ID()).Msg("Failed to delete subscription")
		}
	}

	topics := client.Topics(ctx)
	for {
		topic, err := topics.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to list topics")
		}
		if err := topic.Delete(ctx); err != nil {
			logger.Warn().Err(err).Str("topic", topic.ID()).Msg("Failed to delete topic")
		}
	}
	logger.Info().Msg("Emulator reset")
}

// ensureBillingTopic creates the billing topic, its dead letter topic and a
// pull subscription for downstream consumers.
func ensureBillingTopic(ctx context.Context, client *pubsub.Client, logger zerolog.Logger, topicID string) error {
	sevenDays := 7 * 24 * time.Hour

	dlq, err := topicIfNotExists(ctx, client, logger, topicID+"-dlq", sevenDays)
	if err != nil {
		return err
	}
	topic, err := topicIfNotExists(ctx, client, logger, topicID, sevenDays)
	if err != nil {
		return err
	}

	subID := topicID + "-sub"
	sub := client.Subscription(subID)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check subscription %s: %w", subID, err)
	}
	if exists {
		logger.Info().Str("subscription", subID).Msg("Subscription already exists")
		return nil
	}
	_, err = client.CreateSubscription(ctx, subID, pubsub.SubscriptionConfig{
		Topic:            topic,
		AckDeadline:      60 * time.Second,
		ExpirationPolicy: 31 * 24 * time.Hour,
		RetryPolicy: &pubsub.RetryPolicy{
			MinimumBackoff: 10 * time.Second,
			MaximumBackoff: 600 * time.Second,
		},
		DeadLetterPolicy: &pubsub.DeadLetterPolicy{
			DeadLetterTopic:     dlq.String(),
			MaxDeliveryAttempts: 5,
		},
	})
	if err != nil {
		return fmt.Errorf("create subscription %s: %w", subID, err)
	}
	logger.Info().Str("subscription", subID).Msg("Subscription created")
	return nil
}

func topicIfNotExists(ctx context.Context, client *pubsub.Client, logger zerolog.Logger, topicID string, retention time.Duration) (*pubsub.Topic, error) {
	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check topic %s: %w", topicID, err)
	}
	if exists {
		logger.Info().Str("topic", topicID).Msg("Topic already exists")
		return topic, nil
	}
	logger.Info().Str("topic", topicID).Dur("retention", retention).Msg("Creating topic")
	return client.CreateTopicWithConfig(ctx, topicID, &pubsub.TopicConfig{RetentionDuration: retention})
}
