package control

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/zxiong/pulp"
	"github.com/zxiong/pulp/internal/osutil"
)

const (
	// systemvTemplate is a System V init.d script template with
	// placeholders for customizable options. The script layout
	// follows the conventional RedHat/Debian dual-mode daemon
	// scripts shipped under /etc/init.d.
	systemvTemplate = `#!/bin/bash
#
# ` + serviceNamePlaceholder + `        ` + shortDescriptionPlaceholder + `
#
# chkconfig: ` + chkconfigLevelsPlaceholder + ` 85 15
# description: ` + descriptionPlaceholder + `
#
### BEGIN INIT INFO
# Provides: ` + serviceNamePlaceholder + `
# Required-Start: ` + requiredFacilitiesPlaceholder + `
# Required-Stop: ` + requiredFacilitiesPlaceholder + `
# Should-Start: ` + softDependenciesPlaceholder + `
# Should-Stop: ` + softDependenciesPlaceholder + `
# Default-Start: ` + startRunlevelsPlaceholder + `
# Default-Stop: ` + stopRunlevelsPlaceholder + `
# Short-Description: ` + shortDescriptionPlaceholder + `
# Description:       ` + descriptionPlaceholder + `
### END INIT INFO

IS_REDHAT=""
if [ -f "/etc/redhat-release" ]
then
    IS_REDHAT=true
    . /etc/rc.d/init.d/functions
else
    . /lib/lsb/init-functions
    export PATH="${PATH:+$PATH:}/usr/sbin:/sbin"
fi

PROGRAM_NAME='` + serviceNamePlaceholder + `'
PROGRAM_PATH='` + exePathPlaceholder + `'
ARGUMENTS='` + argumentsPlaceholder + `'
RUN_AS='` + runAsPlaceholder + `'
if [ -z "${RUN_AS}" ]
then
    RUN_AS='root'
fi
DEFAULTS_FILE='` + defaultsFilePlaceholder + `'
` + pulp.PidFileVar + `='` + pidFilePathPlaceholder + `'

if [ -n "${DEFAULTS_FILE}" ] && [ -f "${DEFAULTS_FILE}" ]
then
    . "${DEFAULTS_FILE}"
fi

start() {
    [ -x "${PROGRAM_PATH}" ] || exit 5
    if [ -n "${IS_REDHAT}" ]
    then
        echo -n $"Starting ${PROGRAM_NAME}: "
    else
        log_daemon_msg "Starting ${PROGRAM_NAME}" "${PROGRAM_NAME}" || true
    fi
    local logFilePath="` + logFilePathPlaceholder + `"
    if [ -z "${logFilePath}" ]
    then
        logFilePath=/dev/null
    else
        mkdir -p -m 0700 "${logFilePath%/*}"
        chown -R "${RUN_AS}:${RUN_AS}" "${logFilePath%/*}"
    fi
    local r=0
    if [ "${RUN_AS}" == "root" ]
    then
        ${PROGRAM_PATH} ${ARGUMENTS} 2> "${logFilePath}"
    else
        touch ${` + pulp.PidFileVar + `}
        chown ${RUN_AS}:${RUN_AS} ${` + pulp.PidFileVar + `}
        su ${RUN_AS} -c "${PROGRAM_PATH} ${ARGUMENTS} 2> '${logFilePath}'"
    fi
    r=$?
    if [ -n "${IS_REDHAT}" ]
    then
        if [ ${r} -eq 0 ]; then success; else failure; fi
        echo
    else
        log_end_msg ${r} || true
    fi
    return ${r}
}

stop() {
    if [ -n "${IS_REDHAT}" ]
    then
        echo -n $"Stopping ${PROGRAM_NAME}: "
        killproc -p ${` + pulp.PidFileVar + `} ${PROGRAM_PATH}
        echo
    else
        log_daemon_msg "Stopping ${PROGRAM_NAME}" "${PROGRAM_NAME}" || true
        if start-stop-daemon --stop --pidfile ${` + pulp.PidFileVar + `}
        then
            log_end_msg 0 || true
        else
            log_end_msg 1 || true
        fi
    fi
    return $?
}

reload() {
    if [ -n "${IS_REDHAT}" ]
    then
        echo -n $"Reloading ${PROGRAM_NAME}: "
        killproc -p ${` + pulp.PidFileVar + `} ${PROGRAM_PATH} -HUP
        r=$?
        echo
        return ${r}
    else
        log_daemon_msg "Reloading ${PROGRAM_NAME}" "${PROGRAM_NAME}" || true
        if start-stop-daemon --signal HUP --pidfile ${` + pulp.PidFileVar + `} --stop
        then
            log_end_msg 0 || true
        else
            log_end_msg 1 || true
        fi
    fi
}

is_running() {
    if [ -n "${IS_REDHAT}" ]
    then
        status -p ${` + pulp.PidFileVar + `} ${PROGRAM_NAME} >/dev/null 2>&1
    else
        start-stop-daemon --status --pidfile ${` + pulp.PidFileVar + `}
    fi
}

case "$1" in
    start)
        is_running && exit 0
        start
        ;;
    stop)
        is_running || exit 0
        stop
        ;;
    restart)
        stop
        start
        exit $?
        ;;
    reload|force-reload)
        reload
        ;;
    condrestart|try-restart)
        is_running || exit 0
        stop
        start
        exit $?
        ;;
    status)
        if [ -n "${IS_REDHAT}" ]
        then
            status -p ${` + pulp.PidFileVar + `} ${PROGRAM_NAME}
            exit $?
        else
            status_of_proc -p ${` + pulp.PidFileVar + `} "${PROGRAM_PATH}" "${PROGRAM_NAME}" && exit 0 || exit $?
        fi
        ;;
    *)
        echo $"Usage: $0 {start|stop|restart|reload|force-reload|condrestart|try-restart|status}"
        exit 2
esac
exit $?
`

	serviceNamePlaceholder        = placeholderDelim + "NAME" + placeholderDelim
	shortDescriptionPlaceholder   = placeholderDelim + "SHORT_DESCRIPTION" + placeholderDelim
	descriptionPlaceholder        = placeholderDelim + "DESCRIPTION" + placeholderDelim
	exePathPlaceholder            = placeholderDelim + "EXE_PATH" + placeholderDelim
	argumentsPlaceholder          = placeholderDelim + "ARGUMENTS" + placeholderDelim
	logFilePathPlaceholder        = placeholderDelim + "LOG_FILE_PATH" + placeholderDelim
	pidFilePathPlaceholder        = placeholderDelim + "PID_FILE_PATH" + placeholderDelim
	runAsPlaceholder              = placeholderDelim + "RUN_AS" + placeholderDelim
	defaultsFilePlaceholder       = placeholderDelim + "DEFAULTS_FILE" + placeholderDelim
	requiredFacilitiesPlaceholder = placeholderDelim + "REQUIRED_FACILITIES" + placeholderDelim
	softDependenciesPlaceholder   = placeholderDelim + "SOFT_DEPENDENCIES" + placeholderDelim
	startRunlevelsPlaceholder     = placeholderDelim + "START_RUNLEVELS" + placeholderDelim
	stopRunlevelsPlaceholder      = placeholderDelim + "STOP_RUNLEVELS" + placeholderDelim
	chkconfigLevelsPlaceholder    = placeholderDelim + "CHKCONFIG_LEVELS" + placeholderDelim
	placeholderDelim              = "^"
)

type systemvController struct {
	servicePath  string
	serviceID    string
	pidFilePath  string
	initContents string
	initFilePath string
	startType    StartType
	isRedHat     bool
	enableTool   string
}

func (o *systemvController) Status() (Status, error) {
	initInfo, statErr := os.Stat(o.initFilePath)
	if statErr != nil || initInfo.IsDir() {
		return NotInstalled, nil
	}

	_, exitCode, statusErr := osutil.RunDaemonCli(o.servicePath, o.serviceID, "status")
	if statusErr != nil {
		switch exitCode {
		case 3:
			return Stopped, nil
		case 1:
			return StoppedDead, nil
		}
	}

	if exitCode == 0 {
		return Running, nil
	}

	return Unknown, nil
}

func (o *systemvController) Install() error {
	err := os.WriteFile(o.initFilePath, []byte(o.initContents), 0755)
	if err != nil {
		return fmt.Errorf("failed to write init.d script file - %s", err.Error())
	}

	switch o.startType {
	case StartImmediately:
		err := o.Start()
		if err != nil {
			return err
		}
		fallthrough
	case StartOnLoad:
		var err error
		if o.isRedHat {
			_, _, err = osutil.RunDaemonCli(o.enableTool, o.serviceID, "on")
		} else {
			_, _, err = osutil.RunDaemonCli(o.enableTool, o.serviceID, "defaults")
		}
		if err != nil {
			return err
		}
	case ManualStart:
		// Linux sets System V services to auto start after
		// installation completes. Tell the OS to disable auto
		// start when the daemon should only start manually.
		var err error
		if o.isRedHat {
			_, _, err = osutil.RunDaemonCli(o.enableTool, o.serviceID, "off")
		} else {
			_, _, err = osutil.RunDaemonCli(o.enableTool, o.serviceID, "disable")
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (o *systemvController) Uninstall() error {
	// Try to stop the daemon. Ignore any errors because it might be
	// stopped already, or the stop failed (which there is nothing
	// we can do about).
	o.Stop()

	if o.isRedHat {
		osutil.RunDaemonCli(o.enableTool, "--del", o.serviceID)
	}

	err := os.Remove(o.initFilePath)
	if err != nil {
		return err
	}

	if !o.isRedHat {
		osutil.RunDaemonCli(o.enableTool, o.serviceID, "remove")
	}

	return nil
}

func (o *systemvController) Start() error {
	_, _, err := osutil.RunDaemonCli(o.servicePath, o.serviceID, "start")
	if err != nil {
		return err
	}

	return nil
}

func (o *systemvController) Stop() error {
	_, _, err := osutil.RunDaemonCli(o.servicePath, o.serviceID, "stop")
	if err != nil {
		return err
	}

	return nil
}

func (o *systemvController) Restart() error {
	_, _, err := osutil.RunDaemonCli(o.servicePath, o.serviceID, "restart")
	if err != nil {
		return err
	}

	return nil
}

func (o *systemvController) TryRestart() error {
	status, err := o.Status()
	if err != nil {
		return err
	}

	if status != Running {
		return nil
	}

	return o.Restart()
}

func (o *systemvController) ForceReload() error {
	pid, err := osutil.ReadPidFile(o.pidFilePath)
	if err != nil {
		return fmt.Errorf("failed to read pid file '%s' - %s", o.pidFilePath, err.Error())
	}

	if !osutil.IsPidAlive(pid) {
		return fmt.Errorf("pid file '%s' refers to pid %d, which is not running", o.pidFilePath, pid)
	}

	return osutil.SignalReload(pid)
}

// renderInitScript fills the init.d script template in from the
// controller config. It fails if any placeholder is left unreplaced.
func renderInitScript(config ControllerConfig) (string, error) {
	var logFilePath string
	if config.LogConfig.UseNativeLogger {
		logFilePath = path.Join("/var/log", config.ServiceID, config.ServiceID+".log")
	}

	replacer := strings.NewReplacer(serviceNamePlaceholder, config.ServiceID,
		shortDescriptionPlaceholder, fmt.Sprintf("%s daemon", config.ServiceID),
		descriptionPlaceholder, config.Description,
		exePathPlaceholder, config.ExePath,
		argumentsPlaceholder, config.argumentsAsString(),
		runAsPlaceholder, config.RunAs,
		logFilePathPlaceholder, logFilePath,
		defaultsFilePlaceholder, config.DefaultsFilePath,
		requiredFacilitiesPlaceholder, strings.Join(config.RequiredFacilities, " "),
		softDependenciesPlaceholder, strings.Join(config.ShouldStartAfter, " "),
		startRunlevelsPlaceholder, strings.Join(config.StartRunlevels, " "),
		stopRunlevelsPlaceholder, strings.Join(config.StopRunlevels, " "),
		chkconfigLevelsPlaceholder, strings.Join(config.StartRunlevels, ""),
		pidFilePathPlaceholder, config.pidFilePath())

	script := replacer.Replace(systemvTemplate)
	if strings.Contains(script, placeholderDelim) {
		return "", fmt.Errorf("failed to replace all placeholders in daemon init.d script")
	}

	return script, nil
}

func newSystemvController(config ControllerConfig, serviceExePath string, isRedHat bool) (*systemvController, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	script, err := renderInitScript(config)
	if err != nil {
		return nil, err
	}

	var enableCliToolPath string
	if isRedHat {
		enableCliToolPath, err = osutil.ChkconfigPath()
	} else {
		enableCliToolPath, err = osutil.UpdatercdPath()
	}
	if err != nil {
		return nil, err
	}

	return &systemvController{
		servicePath:  serviceExePath,
		serviceID:    config.ServiceID,
		pidFilePath:  config.pidFilePath(),
		initContents: script,
		initFilePath: fmt.Sprintf("/etc/init.d/%s", config.ServiceID),
		startType:    config.StartType,
		isRedHat:     isRedHat,
		enableTool:   enableCliToolPath,
	}, nil
}
