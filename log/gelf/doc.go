// Package gelf ships [log/slog] records to a Graylog-compatible collector.
//
// A [Sink] is a [slog.Handler]. It converts each record into a GELF 1.1
// message and queues it; [Sink.Start] connects in the background and drains
// the queue. Shipping is best effort: a collector that cannot be reached is
// reported once through the error function and never surfaces as an error
// from [Sink.Handle].
//
//	sink := gelf.NewSink("logging-server:12201", "billing")
//	sink.Start(ctx)
//	defer sink.Close()
//
//	logger := slog.New(sink)
//
// The wire protocol is provided by [github.com/Graylog2/go-gelf/gelf].
package gelf
