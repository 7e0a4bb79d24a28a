package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"

	"github.com/example/jobdesk/backend/internal/mq"
)

func newEventsCmd(c *cli) *cobra.Command {
	var queue string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print request lifecycle events as they are published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.open(cmd, false); err != nil {
				return err
			}
			if queue == "" {
				queue = c.cfg.MQQueue
			}
			consumer, err := dialConsumer(c.cfg.MQURL, c.cfg.MQExchange, queue)
			if err != nil {
				return err
			}
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			defer func() {
				if err := consumer.Close(); err != nil {
					fmt.Fprintf(errOut, "close consumer: %v\n", err)
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = consumer.Consume(func(msg amqp091.Delivery) {
				printEvent(out, errOut, msg)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(errOut, "listening on %s (%s), Ctrl-C to stop\n", queue, mq.RequestEventsBinding)
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&queue, "queue", "", "Queue to bind (defaults to RABBITMQ_QUEUE)")
	return cmd
}

func dialConsumer(url, exchange, queue string) (mq.Consumer, error) {
	consumer, err := mq.NewRabbitConsumer(url, exchange, queue)
	if err != nil {
		return nil, err
	}
	return consumer, nil
}

// printEvent writes one line per event and acknowledges it. Malformed bodies
// are dropped without requeue.
func printEvent(out, errOut io.Writer, msg amqp091.Delivery) {
	event, err := mq.DecodeRequestEvent(msg.Body)
	if err != nil {
		fmt.Fprintf(errOut, "skip malformed event %s: %v\n", msg.RoutingKey, err)
		if err := msg.Nack(false, false); err != nil {
			fmt.Fprintf(errOut, "nack %s: %v\n", msg.RoutingKey, err)
		}
		return
	}
	fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", event.Event, event.Reference, event.Status, event.Actor)
	if err := msg.Ack(false); err != nil {
		fmt.Fprintf(errOut, "ack %s %s: %v\n", event.Event, event.Reference, err)
	}
}
