package config

import (
	"os"
	"strconv"
)

const DATABASE_TYPE = "FMATIC_DATABASE_TYPE"
const DATABASE_URL = "FMATIC_DATABASE_URL"
const DATABASE_SQLLITE_FILE_NAME = "FMATIC_DATABASE_SQLLITE_FILE_NAME"
const ENGINE_SERVER_WEB_PORT = "FMATIC_ENGINE_SERVER_WEB_PORT"
const ENGINE_EXECUTOR_SIZE = "FMATIC_ENGINE_EXECUTOR_SIZE" //number of workers draining the run queue
const ENGINE_RUN_QUEUE_SIZE = "FMATIC_ENGINE_RUN_QUEUE_SIZE"
const ENGINE_API_KEY = "FMATIC_API_KEY" //when set, all /api routes require this key
const HANDLER_SETTINGS_FILE = "FMATIC_HANDLER_SETTINGS_FILE"
const HANDLER_DEFAULT_TIMEOUT_MS = "FMATIC_HANDLER_DEFAULT_TIMEOUT_MS"

const DATABASE_TYPE_POSTGRES = "POSTGRES"
const DATABASE_TYPE_MYSQL = "MYSQL"
const DATABASE_TYPE_SQLLITE = "SQLLITE"

func GetSystemSettingInteger(settingKey string) int {
	val := GetSystemSettingString(settingKey)
	if val != "" {
		intValue, _ := strconv.Atoi(val)
		return intValue
	}
	return 0
}

func GetSystemSettingString(settingKey string) string {
	val := os.Getenv(settingKey)
	if val != "" {
		return val
	}
	if settingKey == ENGINE_EXECUTOR_SIZE {
		return "5" // default to 5 workers
	}
	if settingKey == ENGINE_RUN_QUEUE_SIZE {
		return "100"
	}
	if settingKey == ENGINE_SERVER_WEB_PORT {
		return "8080"
	}
	if settingKey == DATABASE_SQLLITE_FILE_NAME {
		return "./fmatic.db"
	}
	if settingKey == HANDLER_DEFAULT_TIMEOUT_MS {
		return "30000" // external calls are bounded at 30s unless an action overrides
	}
	return ""
}
