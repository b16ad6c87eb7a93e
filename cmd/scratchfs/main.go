package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/weberc2/scratchfs/pkg/host"
	"github.com/weberc2/scratchfs/pkg/vdisk"
)

// app carries the opened disk from `Before` to the commands and `After`.
type app struct {
	logger *logrus.Logger
	disk   *vdisk.Disk
	bridge *host.Bridge
}

func main() {
	var a app

	userFlag := cli.StringFlag{
		Name:    "user",
		Aliases: []string{"u"},
		Value:   vdisk.RootLogin,
		EnvVars: []string{envVarPrefix + "_USER"},
		Usage:   "the account that owns files written by this command",
	}
	passwordFlag := cli.StringFlag{
		Name:    "password",
		Aliases: []string{"p"},
		EnvVars: []string{envVarPrefix + "_PASSWORD"},
		Usage:   "the password of --user",
	}

	cliApp := &cli.App{
		Name:   appName,
		Usage:  "manage files on a scratch virtual disk",
		Flags:  []cli.Flag{&userFlag, &passwordFlag},
		Before: func(*cli.Context) error { return a.open() },
		After:  func(*cli.Context) error { return a.close() },
		Commands: []*cli.Command{
			{
				Name:   "info",
				Usage:  "print the superblock, the inode table and the user table",
				Action: a.info,
			},
			{
				Name:   "ls",
				Usage:  "list files",
				Action: a.ls,
			},
			{
				Name:      "cat",
				Usage:     "print a file",
				ArgsUsage: "NAME",
				Action:    a.cat,
			},
			{
				Name:      "import",
				Usage:     "copy a host file onto the disk",
				ArgsUsage: "PATH",
				Action: func(c *cli.Context) error {
					return a.importFile(c, userFlag.Name, passwordFlag.Name)
				},
			},
			{
				Name:      "export",
				Usage:     "copy a file from the disk to the host",
				ArgsUsage: "NAME",
				Action:    a.exportFile,
			},
			{
				Name:      "rm",
				Usage:     "delete a file",
				ArgsUsage: "NAME",
				Action:    a.rm,
			},
			{
				Name:      "useradd",
				Usage:     "add an account",
				ArgsUsage: "LOGIN PASSWORD",
				Action:    a.useradd,
			},
			{
				Name:   "users",
				Usage:  "list accounts",
				Action: a.users,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func (a *app) open() error {
	config, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if a.logger, err = config.Logger(); err != nil {
		return err
	}

	hostFS, err := config.Host()
	if err != nil {
		return err
	}
	if a.disk, err = vdisk.Open(config.DiskDir, &vdisk.FormatParams{
		Capacity:     config.Capacity,
		RootPassword: config.RootPassword,
	}); err != nil {
		return err
	}
	a.bridge = &host.Bridge{
		Disk:   a.disk,
		Host:   hostFS,
		Logger: a.logger,
	}

	a.logger.WithField("disk", config.DiskDir).
		WithField("volume", a.disk.Superblock.VolumeID).
		WithField("files", a.disk.Superblock.FileCount).
		WithField("users", a.disk.Superblock.UserCount).
		Debugf("opened disk")
	return nil
}

func (a *app) close() error {
	if a.disk == nil {
		return nil
	}
	if err := a.disk.Close(); err != nil {
		return err
	}
	a.logger.WithField("freeCursor", a.disk.Superblock.FreeCursor).
		Debugf("closed disk")
	return nil
}

func (a *app) info(c *cli.Context) error {
	data, err := json.MarshalIndent(vdisk.NewReport(a.disk), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	_, err = fmt.Fprintf(c.App.Writer, "%s\n", data)
	return err
}

func (a *app) ls(c *cli.Context) error {
	for _, inode := range vdisk.Files(a.disk) {
		if _, err := fmt.Fprintf(
			c.App.Writer,
			"%-32s %8d %4d  %s\n",
			inode.Name,
			inode.Size,
			inode.Owner,
			inode.MTime,
		); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) cat(c *cli.Context) error {
	name, err := arg(c, 0, "NAME")
	if err != nil {
		return err
	}
	file, err := vdisk.ReadFile(a.disk, name)
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(file.Data)
	return err
}

func (a *app) importFile(c *cli.Context, userFlag, passwordFlag string) error {
	path, err := arg(c, 0, "PATH")
	if err != nil {
		return err
	}
	session, err := vdisk.Login(
		a.disk,
		c.String(userFlag),
		c.String(passwordFlag),
	)
	if err != nil {
		return err
	}
	return a.bridge.Import(path, session)
}

func (a *app) exportFile(c *cli.Context) error {
	name, err := arg(c, 0, "NAME")
	if err != nil {
		return err
	}
	return a.bridge.Export(name)
}

func (a *app) rm(c *cli.Context) error {
	name, err := arg(c, 0, "NAME")
	if err != nil {
		return err
	}
	return vdisk.DeleteFile(a.disk, name)
}

func (a *app) useradd(c *cli.Context) error {
	login, err := arg(c, 0, "LOGIN")
	if err != nil {
		return err
	}
	passwd, err := arg(c, 1, "PASSWORD")
	if err != nil {
		return err
	}
	id, err := vdisk.CreateUser(a.disk, login, passwd)
	if err != nil {
		return err
	}
	a.logger.WithField("login", login).WithField("id", id).Infof("created user")
	return nil
}

func (a *app) users(c *cli.Context) error {
	for _, user := range vdisk.Users(a.disk) {
		if _, err := fmt.Fprintf(
			c.App.Writer,
			"%4d %s\n",
			user.ID,
			user.Login,
		); err != nil {
			return err
		}
	}
	return nil
}

func arg(c *cli.Context, i int, name string) (string, error) {
	if c.NArg() <= i {
		return "", cli.Exit(
			fmt.Sprintf("missing required argument: %s", name),
			2,
		)
	}
	return c.Args().Get(i), nil
}
