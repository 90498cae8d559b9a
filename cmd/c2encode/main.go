package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/c2module"
	"github.com/xaionaro-go/c2module/config"
	"github.com/xaionaro-go/c2module/engine"
	"github.com/xaionaro-go/c2module/loader"
	"github.com/xaionaro-go/c2module/logger"
	"github.com/xaionaro-go/c2module/metrics"
	"github.com/xaionaro-go/c2module/quality"
	"github.com/xaionaro-go/c2module/types"
	"github.com/xaionaro-go/observability"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s [flags] <input.nv12> <output>\n", os.Args[0])
		pflag.PrintDefaults()
	}

	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	configPath := pflag.String("config", "", "path to a YAML config file; the built-in defaults are used if empty")
	codecName := pflag.String("codec", types.CodecTypeH264VideoEncode.String(), "codec type: h264_encode, h265_encode or heic_encode")
	width := pflag.Uint32("width", 1920, "frame width")
	height := pflag.Uint32("height", 1080, "frame height")
	fps := pflag.Uint64("fps", 30, "frame rate, used to generate timestamps")
	qualityJSON := pflag.String("quality", "", `rate control as JSON, e.g. {"type":"constant_bitrate","bitrate":4000000}`)
	metricsAddr := pflag.String("metrics-listen-addr", "", "an address to serve Prometheus metrics at")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	pflag.Parse()
	if len(pflag.Args()) != 2 {
		pflag.Usage()
		os.Exit(1)
	}

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	ctx, cancelFn := signal.NotifyContext(ctx, os.Interrupt)
	defer cancelFn()
	logger.SetDefault(func() logger.Logger {
		return l
	})
	defer belt.Flush(ctx)

	if *netPprofAddr != "" {
		observability.Go(ctx, func(ctx context.Context) {
			l.Error(http.ListenAndServe(*netPprofAddr, nil))
		})
	}

	m := metrics.New(nil)
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		observability.Go(ctx, func(ctx context.Context) {
			l.Error(http.ListenAndServe(*metricsAddr, mux))
		})
	}

	var codecType types.CodecType
	if err := codecType.UnmarshalText([]byte(*codecName)); err != nil {
		l.Fatal(err)
	}
	if codecType.Mode() != types.ModeVideoEncode {
		l.Fatalf("%s is not a video encoder", codecType)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			l.Fatal(err)
		}
	}

	var q quality.Quality
	if *qualityJSON != "" {
		var err error
		q, err = quality.Parse([]byte(*qualityJSON))
		if err != nil {
			l.Fatal(err)
		}
	}

	p := runParams{
		Quality:   q,
		Config:    cfg,
		Metrics:   m,
		CodecType: codecType,
		Width:     *width,
		Height:    *height,
		FPS:       *fps,
		InputPath: pflag.Arg(0),
		OutPath:   pflag.Arg(1),
	}
	if err := p.validate(); err != nil {
		l.Fatal(err)
	}
	if err := run(ctx, p); err != nil {
		l.Fatal(err)
	}
}

type runParams struct {
	Config    *config.Config
	Metrics   *metrics.Metrics
	Quality   quality.Quality
	CodecType types.CodecType
	Width     uint32
	Height    uint32
	FPS       uint64
	InputPath string
	OutPath   string
}

func (p runParams) validate() error {
	switch {
	case p.FPS == 0:
		return fmt.Errorf("the frame rate must be positive")
	case p.Width == 0 || p.Height == 0:
		return fmt.Errorf("invalid frame size %dx%d", p.Width, p.Height)
	}
	return nil
}

func run(ctx context.Context, p runParams) (_err error) {
	if err := p.validate(); err != nil {
		return err
	}
	input, err := os.Open(p.InputPath)
	if err != nil {
		return fmt.Errorf("unable to open the input: %w", err)
	}
	defer input.Close()

	output, err := os.Create(p.OutPath)
	if err != nil {
		return fmt.Errorf("unable to create the output: %w", err)
	}
	defer func() {
		if err := output.Close(); err != nil {
			_err = errors.Join(_err, err)
		}
	}()

	factory := c2module.NewFactory(c2module.FactoryParams{
		Loader: loader.NewDLLoader(nil),
		Config: p.Config,
	})
	defer func() {
		if err := factory.Close(ctx); err != nil {
			logger.Errorf(ctx, "unable to close the factory: %v", err)
		}
	}()

	componentName, err := p.Config.ComponentName(p.CodecType)
	if err != nil {
		return err
	}

	var settings []types.Param
	if p.Quality != nil {
		settings = p.Quality.Params(p.Config.EncoderParams)
	}

	w := &outputWriter{Writer: output}
	e, err := engine.New(ctx, factory, p.CodecType, engine.Params{
		OnFrame:      w.onFrame,
		WrapNotifier: p.Metrics.WrapNotifier(componentName),
		Settings:     settings,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := e.Close(ctx); err != nil {
			logger.Errorf(ctx, "unable to close the engine: %v", err)
		}
	}()

	if err := e.Start(ctx); err != nil {
		return err
	}

	mem, err := e.Session.GetGraphicMemory(ctx)
	if err != nil {
		return err
	}

	frame := make([]byte, nv12FrameSize(p.Width, p.Height))
	isHEIF := p.CodecType == types.CodecTypeHEICVideoEncode
	for frameNum := uint64(0); ; frameNum++ {
		if _, err := io.ReadFull(input, frame); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("unable to read frame #%d: %w", frameNum, err)
		}

		block, err := mem.Fetch(ctx, p.Width, p.Height, types.PixelFormatNV12, isHEIF)
		if err != nil {
			return err
		}
		if err := copyNV12(ctx, block, frame, p.Width, p.Height); err != nil {
			return err
		}

		timestamp := frameNum * 1000000 / p.FPS
		if _, err := e.Queue(ctx, types.NewGraphicBuffer(block), timestamp, 0); err != nil {
			return fmt.Errorf("unable to queue frame #%d: %w", frameNum, err)
		}
	}

	if err := e.DrainAndWait(ctx); err != nil {
		return err
	}
	if err := e.WaitIdle(ctx); err != nil {
		return err
	}

	fmt.Printf("%s; written: %s\n", e.Stats(), humanize.IBytes(w.written.Load()))
	return w.err
}
