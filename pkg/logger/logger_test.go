package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a usable logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := InitWithWriter(&bytes.Buffer{}, "xml")

			Convey("Then it fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When initialized with a nil writer", func() {
			So(InitWithWriter(nil, FormatText), ShouldNotBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf, FormatJSON), ShouldBeNil)
		So(SetLevelString("info"), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields on a named logger", func() {
			Named("tracker").With(String("day", "2025-07-19")).Info(ctx, "admitted",
				Int("count", 3), Bool("dup", false), Error(errors.New("boom")))

			Convey("Then the record carries component, fields, and source", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "admitted")
				So(rec["component"], ShouldEqual, "tracker")
				So(rec["day"], ShouldEqual, "2025-07-19")
				So(rec["count"], ShouldEqual, 3.0)
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the configured level", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Debug(ctx, "hidden")
			Get().Info(ctx, "hidden too")

			Convey("Then nothing is written", func() {
				So(strings.TrimSpace(buf.String()), ShouldBeEmpty)
			})
		})

		Reset(func() {
			_ = SetLevelString("info")
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		for _, lvl := range []string{"debug", "INFO", "", "warning", "warn", " error "} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("chatty"), ShouldNotBeNil)
		_ = SetLevelString("info")
	})
}
