package config

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const paramFilename = "param.yaml"

type ServerConfig struct {
	ConfigDir      string
	DebugMode      bool
	SimulationMode bool

	*ServerParam
}

func NewServerConfig(configDir string, debugMode bool, simulationMode bool) *ServerConfig {
	serverConfig := &ServerConfig{
		ConfigDir:      configDir,
		DebugMode:      debugMode,
		SimulationMode: simulationMode,
	}

	// Check Configuration folder
	_, err := os.Stat(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Printf("Creation of config folder: %s", configDir)
			err = os.Mkdir(configDir, 0770)
			if err != nil {
				logrus.Fatalf("Unable to create config folder: %v\n", err)
			}
		} else {
			logrus.Fatalf("Unable to access config folder: %s", configDir)
		}
	}

	serverConfig.ServerParam, err = LoadServerParam(serverConfig.GetCompleteParamFilename())
	if os.IsNotExist(errors.Cause(err)) {
		// Create default param file
		logrus.Infof("Create default param file")
		serverConfig.ServerParam, err = DefaultServerParam()
		if err != nil {
			logrus.Fatalf("Unable to interpret default config file: %v\n", err)
		}
		serverConfig.SaveParam()
	} else if err != nil {
		logrus.Fatalf("Unable to interpret config file: %v\n", err)
	}

	return serverConfig
}

// LoadServerParam reads and validates a param file. Keys missing from the
// file keep their default value.
func LoadServerParam(filename string) (*ServerParam, error) {
	rawConfig, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", filename)
	}
	serverParam, err := DefaultServerParam()
	if err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(rawConfig, serverParam); err != nil {
		return nil, errors.Wrapf(err, "parse %s", filename)
	}
	if err = serverParam.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", filename)
	}
	return serverParam, nil
}

func DefaultServerParam() (*ServerParam, error) {
	serverParam := &ServerParam{}
	if err := yaml.Unmarshal(ParamDefaultFile, serverParam); err != nil {
		return nil, errors.Wrap(err, "parse default param")
	}
	return serverParam, nil
}

func (sc *ServerConfig) GetCompleteParamFilename() string {
	return filepath.Join(sc.ConfigDir, paramFilename)
}

func (sc *ServerConfig) SaveParam() {
	logrus.Debugf("Save param file: %s", sc.GetCompleteParamFilename())
	rawConfig, err := yaml.Marshal(*sc.ServerParam)
	if err != nil {
		logrus.Fatalf("Unable to serialize param file: %v\n", err)
	}
	err = ioutil.WriteFile(sc.GetCompleteParamFilename(), rawConfig, 0660)
	if err != nil {
		logrus.Fatalf("Unable to save param file: %v\n", err)
	}
}
