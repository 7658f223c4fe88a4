package kafka

import (
	"context"
	"errors"
	"testing"

	"shortsmaker/config"
	"shortsmaker/generator"
	"shortsmaker/jobs"
)

func TestGenerationRequestOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		req := GenerationRequest{Topic: "quantum computing"}
		opts := req.Options()
		if !opts.Music {
			t.Fatal("music should default on when the field is absent")
		}
		if opts.MusicVolume != config.DefaultMusicVolume {
			t.Fatalf("got music volume %v, want %v", opts.MusicVolume, config.DefaultMusicVolume)
		}
		if opts.Ducking != config.DefaultDucking {
			t.Fatalf("got ducking %v, want %v", opts.Ducking, config.DefaultDucking)
		}
	})

	t.Run("explicit values win", func(t *testing.T) {
		off := false
		vol := 0.3
		req := GenerationRequest{Topic: "t", Music: &off, MusicVolume: &vol, BurnSubs: true}
		opts := req.Options()
		if opts.Music {
			t.Fatal("music should be off")
		}
		if opts.MusicVolume != 0.3 {
			t.Fatalf("got music volume %v, want 0.3", opts.MusicVolume)
		}
		if !opts.BurnSubs {
			t.Fatal("burn_subs should carry over")
		}
	})
}

func TestTypedMessageHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid json marked when AlwaysMark", func(t *testing.T) {
		handler := &TypedMessageHandler[GenerationRequest]{AlwaysMark: true}
		mark, err := handler.HandleMessage(ctx, []byte("{not json"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !mark {
			t.Fatal("undecodable message should be marked so it is skipped")
		}
	})

	t.Run("validation failure marks per AlwaysMark", func(t *testing.T) {
		handler := &TypedMessageHandler[GenerationRequest]{
			Validate:   func(msg *GenerationRequest) bool { return false },
			AlwaysMark: false,
		}
		mark, err := handler.HandleMessage(ctx, []byte(`{"topic":"t"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mark {
			t.Fatal("validation failure should not mark when AlwaysMark is false")
		}
	})

	t.Run("process error leaves message unmarked", func(t *testing.T) {
		handler := &TypedMessageHandler[GenerationRequest]{
			Process: func(ctx context.Context, msg *GenerationRequest) error {
				return errors.New("boom")
			},
			AlwaysMark: true,
		}
		mark, err := handler.HandleMessage(ctx, []byte(`{"topic":"t"}`))
		if err == nil {
			t.Fatal("expected the process error back")
		}
		if mark {
			t.Fatal("failed processing must not mark the message")
		}
	})

	t.Run("success marks", func(t *testing.T) {
		handler := &TypedMessageHandler[GenerationRequest]{
			Process: func(ctx context.Context, msg *GenerationRequest) error { return nil },
		}
		mark, err := handler.HandleMessage(ctx, []byte(`{"topic":"t"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !mark {
			t.Fatal("successful processing should mark the message")
		}
	})
}

func TestIntakeHandlerRunsRequest(t *testing.T) {
	runner := jobs.NewRunner()
	var gotTopic string
	handler := newIntakeHandler(runner, func(_ context.Context, opts generator.Options) (*generator.Result, error) {
		gotTopic = opts.Topic
		return &generator.Result{BaseName: "run-1", VideoPath: "output/run-1.mp4"}, nil
	})

	mark, err := handler.HandleMessage(context.Background(), []byte(`{"topic":"space news"}`))
	if err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}
	if !mark {
		t.Fatal("completed request should be marked")
	}
	if gotTopic != "space news" {
		t.Fatalf("got topic %q, want %q", gotTopic, "space news")
	}

	status := runner.Status()
	if status.Busy {
		t.Fatal("slot should be free after the run finishes")
	}
	if status.State != jobs.StateDone {
		t.Fatalf("got state %q, want %q", status.State, jobs.StateDone)
	}
}

func TestIntakeHandlerSkipsBlankTopic(t *testing.T) {
	runner := jobs.NewRunner()
	handler := newIntakeHandler(runner, func(_ context.Context, opts generator.Options) (*generator.Result, error) {
		t.Fatal("generate should not run for a blank topic")
		return nil, nil
	})

	mark, err := handler.HandleMessage(context.Background(), []byte(`{"topic":"  "}`))
	if err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}
	if !mark {
		t.Fatal("junk request should be marked so it is skipped")
	}
}

func TestIntakeHandlerRetriesWhenBusy(t *testing.T) {
	runner := jobs.NewRunner()
	if _, err := runner.Begin("render", "other"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	handler := newIntakeHandler(runner, func(_ context.Context, opts generator.Options) (*generator.Result, error) {
		t.Fatal("generate should not run while the slot is held")
		return nil, nil
	})

	mark, err := handler.HandleMessage(context.Background(), []byte(`{"topic":"space news"}`))
	if !errors.Is(err, jobs.ErrBusy) {
		t.Fatalf("got error %v, want ErrBusy", err)
	}
	if mark {
		t.Fatal("busy request must stay unmarked for retry")
	}
}
