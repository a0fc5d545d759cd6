package arguments

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// AppMetadata :
// Describes some properties used to identify the current instance of
// the application. This includes data about the machine executing it
// but also information about its behavior (such as the port that is
// exposed for external clients to target the app).
// Most of these information will be used during the logging process
// to provide some context to messages and distinguish among running
// instances of the application (in case several are available).
//
// The `InstanceID` describes an identifier of the current instance
// of the server. Each instance has its own identifier which allows
// to start several instances of a given app on the same machine.
// This value is generated at runtime and is meant to be unique and
// change upon restart of the application on the same machine.
// The default value is automatically generated.
//
// The `Environment` is a string describing the configuration used to
// start this application. A configuration describes a set of values
// that are usually suited to launch the app on a given machine or set
// of machines. Typical values include `development`, `production`,
// etc.
// The default value is "unknown".
//
// The `Port` specifies on which port the end points defined by the app
// can be accessed. This is useful especially in dev environment where
// we can run multiple API on the same machine and thus should be able
// to configure the port.
// The default value is 3000.
//
// The `RequestTimeout` defines the number of seconds after which a
// request being served is cancelled. It bounds the time spent waiting
// for a stalled client body or a stalled database query so that no
// worker can be pinned indefinitely.
// The default value is 30 seconds.
type AppMetadata struct {
	InstanceID     string `json:"instance_id"`
	Environment    string `json:"environment"`
	Port           int
	RequestTimeout int
}

// Parse :
// Used to parse the app arguments and produce the corresponding data.
// The arguments allow to gather general properties of the environment
// into which the application is to be executed. These properties can
// be used to adapt the behavior of the application (for example by
// specifying the port to expose to the outside world, etc.).
//
// The `configFile` is a string describing the configuration file that
// is provided by the runtime of the application. This is usually the
// name of the configuration file without the extension which contains
// the parameters to apply to the various aspects of the application.
//
// This function returns the built-in application's properties.
func Parse(configFile string) AppMetadata {
	// Assign the extra path to use to reach the configuration file.
	viper.SetEnvPrefix("ENV")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()

	// Put the configuration file in the config structure
	// name of config file (without extension).
	viper.SetConfigName(configFile)

	// Optionally look for config in the working directory and in the
	// common `data/config` directory.
	viper.AddConfigPath(".")
	viper.AddConfigPath("data/config")

	// Find and read the config file.
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("could not parse input configuration \"%s\" (err: %v)", configFile, err))
	}

	// Create the default application properties.
	metadata := AppMetadata{
		uuid.New().String(),
		"unknown",
		3000,
		30,
	}

	// Fetch values from the configuration produced by the runtime.
	if len(configFile) > 0 {
		metadata.Environment = configFile
	}
	if viper.IsSet("App.Port") {
		metadata.Port = viper.GetInt("App.Port")
	}
	if viper.IsSet("App.RequestTimeout") {
		metadata.RequestTimeout = viper.GetInt("App.RequestTimeout")
	}

	// Return the built-in configuration object.
	return metadata
}
