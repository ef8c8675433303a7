package loginit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.jacobcolvin.com/logkit/log"
	"go.jacobcolvin.com/logkit/log/rolling"
	"go.jacobcolvin.com/logkit/loginit"
)

func TestString(t *testing.T) {
	t.Parallel()

	off := func(name string) *loginit.Config {
		return loginit.Builder(name).LogToConsole(false).LogToFile(false).LogToServer(false)
	}

	tcs := map[string]struct {
		cfg  *loginit.Config
		want string
	}{
		"no sinks": {
			cfg:  off("app").Level(log.LevelDebug).Filter("info"),
			want: "",
		},
		"nothing set": {
			cfg: loginit.Builder("app"),
			want: "enable_console: not initialized, enable_log_file not initialized, " +
				"enable_log_server not initialized, level not initialized",
		},
		"file in current directory": {
			cfg: off("App").
				LogToFile(true).
				LogFilePath("").
				LogFileRotation(rolling.Daily).
				LogFileBackups(3).
				Level(log.LevelInfo),
			want: "log to file ./App.log, rotation: daily:3, default level: INFO",
		},
		"file with prefix and never rotation": {
			cfg: off("app").
				LogToFile(true).
				LogFilePath("/var/log").
				LogFilePrefix("svc").
				LogFileRotation(rolling.Never).
				Level(log.LevelDebug),
			want: "log to file /var/log/svc.log, default level: DEBUG",
		},
		"file options unset": {
			cfg: off("app").LogToFile(true),
			want: "log to file log_file_path not initialized/app.log, " +
				"log_file_rotation not initialized, level not initialized",
		},
		"console and server with filter": {
			cfg: off("app").
				LogToConsole(true).
				LogToServer(true).
				LogServerAddress("graylog:12201").
				Level(log.LevelWarn).
				Filter("info,db=debug"),
			want: "log to console, log to server graylog:12201, default level: WARN, (info,db=debug)",
		},
		"console toggle unset": {
			cfg:  loginit.Builder("app").LogToFile(false).LogToServer(false).Level(log.LevelInfo),
			want: "enable_console: not initialized, default level: INFO",
		},
		"server address unset": {
			cfg:  off("app").LogToServer(true),
			want: "log to server log_server_address not initialized, level not initialized",
		},
		"resolved from environment": {
			cfg: loginit.Builder("app").
				WithEnv(loginit.EnvMap(map[string]string{
					"LOG_DESTINATION":   "cfs",
					"LOG_FILE_ROTATION": "h:5",
					"LOG_LEVEL":         "trace",
				})).
				Resolve(),
			want: "log to console, log to file ./app.log, rotation: hourly:5, " +
				"log to server logging-server:12201, default level: TRACE",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.cfg.String())
		})
	}
}
