package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"schoolerp/internal/adapters/api"
	"schoolerp/internal/application/projections"
	"schoolerp/internal/application/session"
	"schoolerp/internal/domain/account"
	"schoolerp/internal/domain/communication"
	"schoolerp/internal/domain/finance"
	"schoolerp/internal/domain/navigation"
	"schoolerp/internal/domain/student"
	domainSession "schoolerp/internal/domain/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp        = errors.New("help provided")
	errNotLoggedIn = errors.New("not logged in; run: schoolctl login -email EMAIL")
)

// command is one subcommand. key is the navigation key whose roles may run
// it; an empty key only needs a session, and guest commands need none.
type command struct {
	usage string
	key   string
	guest bool
	run   func(ctx context.Context, cli *commandLine, fs *flag.FlagSet, args []string) error
}

var commands = map[string]command{
	"login":       {usage: "login -email EMAIL - sign in; the password is prompted", guest: true, run: runLogin},
	"logout":      {usage: "logout - end the session", run: runLogout},
	"whoami":      {usage: "whoami - show the signed-in user", run: runWhoami},
	"nav":         {usage: "nav - list the modules your role can open", run: runNav},
	"students":    {usage: "students [-family ID] [-search TEXT] - list students", key: navigation.KeyStudents, run: runStudents},
	"student":     {usage: "student -id ID - show one student", key: navigation.KeyStudents, run: runStudent},
	"families":    {usage: "families - list families", key: navigation.KeyStudents, run: runFamilies},
	"users":       {usage: "users - list user accounts", key: navigation.KeyStudents, run: runUsers},
	"concepts":    {usage: "concepts - list fee concepts", key: navigation.KeyFinance, run: runConcepts},
	"debts":       {usage: "debts -family ID - show a family's debts", key: navigation.KeyFinance, run: runDebts},
	"report-card": {usage: "report-card -student ID - show a student's grades", key: navigation.KeyAcademic, run: runReportCard},
	"feed":        {usage: "feed - show the communication feed", key: navigation.KeyCommunication, run: runFeed},
	"post":        {usage: "post -title TITLE -body TEXT [-type TYPE] [-role N] - publish to the feed", key: navigation.KeyCommunication, run: runPost},
	"my-children": {usage: "my-children - list your children", key: navigation.KeyMyChildren, run: runMyChildren},
	"my-debts":    {usage: "my-debts - show your families' debts", key: navigation.KeyMyDebts, run: runMyDebts},
}

type commandLine struct {
	session *session.Store
	api     *api.API
	out     io.Writer
	now     func() time.Time
	format  string
}

func newCommandLine(store *session.Store, a *api.API, out io.Writer) *commandLine {
	return &commandLine{session: store, api: a, out: out, now: time.Now}
}

func (cli *commandLine) printUsage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(cli.out, "Usage: schoolctl COMMAND [-o table|json|yaml] [flags]")
	fmt.Fprintln(cli.out, "Commands:")
	for _, name := range names {
		fmt.Fprintf(cli.out, "  %s\n", commands[name].usage)
	}
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	cmd, ok := commands[args[1]]
	if !ok {
		cli.printUsage()
		return errHelp
	}

	fs := flag.NewFlagSet(args[1], flag.ContinueOnError)
	fs.SetOutput(cli.out)
	fs.StringVar(&cli.format, "o", formatTable, "output format: table, json or yaml")
	if err := cli.authorize(args[1], cmd); err != nil {
		return err
	}
	return cmd.run(ctx, cli, fs, args[2:])
}

// authorize is the terminal form of the dashboard's route guard.
func (cli *commandLine) authorize(name string, cmd command) error {
	sess := cli.session.Snapshot()
	if cmd.guest {
		if sess.IsAuthenticated() {
			return fmt.Errorf("already logged in as %s; run: schoolctl logout", sess.User.Email)
		}
		return nil
	}
	if !sess.IsAuthenticated() {
		return errNotLoggedIn
	}
	if cmd.key != "" && !navigation.Allowed(sess.Role(), cmd.key) {
		return fmt.Errorf("%s: not available to the %s role", name, sess.Role().Label())
	}
	return nil
}

// parse parses the subcommand's flags, reporting errHelp on -h.
func (cli *commandLine) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}
	switch cli.format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (valid: table, json, yaml)", cli.format)
	}
}

// required reports errHelp with the flag set's usage when value is blank.
func required(fs *flag.FlagSet, value string) error {
	if strings.TrimSpace(value) == "" {
		fs.Usage()
		return errHelp
	}
	return nil
}

// result folds transport errors and success:false envelopes into one error.
func result[T any](env *api.Envelope[T], err error) (T, error) {
	var zero T
	if err != nil {
		return zero, describe(err)
	}
	if err := env.Err(); err != nil {
		return zero, err
	}
	return env.Data, nil
}

// describe turns a backend failure into the message shown on the terminal.
func describe(err error) error {
	if api.IsUnauthorized(err) {
		return errors.New("session expired; run: schoolctl login -email EMAIL")
	}
	return errors.New(api.Message(err))
}

func runLogin(ctx context.Context, cli *commandLine, fs *flag.FlagSet, args []string) error {
	email := fs.String("email", "", "The account email. The password will be prompted next.")
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, *email); err != nil {
		return err
	}
	fmt.Fprint(cli.out, "Password: ")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return errHelp
	}

	// A 401 here means bad credentials, not an expired session.
	env, err := cli.api.Auth.Login(ctx, account.LoginRequest{Email: strings.TrimSpace(*email), Password: string(pwd)})
	if err != nil {
		return fmt.Errorf("login failed: %s", api.Message(err))
	}
	if err := env.Err(); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	data := env.Data
	if data.Token == "" {
		return errors.New("login failed: the server did not return a session token")
	}
	user, err := account.ProfileFromLogin(data.User)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := cli.session.Login(ctx, data.Token, user); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Welcome, %s! You are signed in as %s.\n", user.DisplayName(), user.RoleID.Label())
	return nil
}

func runLogout(ctx context.Context, cli *commandLine, fs *flag.FlagSet, args []string) error {
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	if err := cli.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Signed out.")
	return nil
}

type whoami struct {
	UserID    string     `json:"user_id" yaml:"user_id"`
	Email     string     `json:"email" yaml:"email"`
	Name      string     `json:"name" yaml:"name"`
	Role      string     `json:"role" yaml:"role"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

func runWhoami(_ context.Context, cli *commandLine, fs *flag.FlagSet, args []string) error {
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	sess := cli.session.Snapshot()
	w := whoami{
		UserID: sess.User.UserID,
		Email:  sess.User.Email,
		Name:   sess.User.DisplayName(),
		Role:   sess.Role().Label(),
	}
	expires := "unknown"
	if at, ok := domainSession.TokenExpiry(sess.Token); ok {
		w.ExpiresAt = &at
		expires = at.Local().Format("02/01/2006 15:04")
		if !at.After(cli.now()) {
			expires += " (expired)"
		}
	}
	return cli.emit(w, table{
		header: []string{"FIELD", "VALUE"},
		rows: [][]string{
			{"User ID", w.UserID},
			{"Email", w.Email},
			{"Name", w.Name},
			{"Role", w.Role},
			{"Token expires", expires},
		},
	})
}

type navEntry struct {
	Key         string `json:"key" yaml:"key"`
	Path        string `json:"path" yaml:"path"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
}

func runNav(_ context.Context, cli *commandLine, fs *flag.FlagSet, args []string) error {
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	entries := navigation.ForRole(cli.session.Snapshot().Role())
	out := make([]navEntry, len(entries))
	t := table{header: []string{"KEY", "PATH", "MODULE", "DESCRIPTION"}}
	for i, e := range entries {
		out[i] = navEntry{Key: e.Key, Path: e.Path, Label: e.Label, Description: e.Description}
		t.rows = append(t.rows, []string{e.Key, e.Path, e.Label, e.Description})
	}
	return cli.emit(out, t)
}

func runStudents(ctx context.Context, cli *commandLine, fs *flag.FlagSet, args []string) error {
	family := fs.String("family", "", "only list the students of this family ID")
	search := fs.String("search", "", "filter by name or document number")
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	list := cli.api.Students.GetAll
	if *family != "" {
		list = func(ctx context.Context) (*api.Envelope[[]student.Student], error) {
			return cli.api.Students.GetByFamily(ctx, *family)
		}
	}
	students, err := result(list(ctx))
	if err != nil {
		return err
	}
	if *search != "" {
		students = student.Search(students, *search)
	}
	return cli.emit(students, studentTable(students))
}

func runStudent(ctx context.Context, cli *commandLine, fs *flag.FlagSet, args []string) error {
	id := fs.String("id", "", "student ID")
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, *id); err != nil {
		return err
	}
	s, err := result(cli.api.Students.GetByID(ctx, *id))
	if err != nil {
		return err
	}
	return cli.emit(s, table{
		header: []string{"FIELD", "VALUE"},
		rows: [][]string{
			{"ID", s.ID},
			{"Name", s.FullName()},
			{"Family", s.FamilyID},
			{"Document", deref(s.DocumentNumber)},
			{"Birth date", deref(s.BirthDate)},
			{"Medical info", deref(s.MedicalInfo)},
		},
	})
}

func runFamilies(ctx context.Context, cli *commandLine, fs *flag.FlagSet, args []string) error {
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	families, err := result(cli.api.Families.GetAll(ctx))
	if err != nil {
		return err
	}
	t := table{header: []string{"ID", "CODE", "GUARDIAN"}}
	for _, f := range families {
		t.rows = append(t.rows, []string{f.ID, f.Code(), f.MainGuardianID})
	}
	return cli.emit(families, t)
}

func runUsers(ctx context.Context, cli *commandLine, fs *flag.FlagSet, args []string) error {
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	users, err := result(cli.api.Users.GetAll(ctx))
	if err != nil {
		return err
	}
	t := table{header: []string{"ID", "EMAIL", "NAME", "ROLE", "ACTIVE"}}
	for _, u := range users {
		t.rows = append(t.rows, []string{u.ID, u.Email, u.Name(), u.RoleID.Label(), yesNo(u.IsActive)})
	}
	return cli.emit(users, t)
}

func runConcepts(ctx context.Context, cli *commandLine, fs *flag.FlagSet, args []string) error {
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	concepts, err := result(cli.api.Concepts.GetAll(ctx))
	if err != nil {
		return err
	}
	t := table{header: []string{"ID", "NAME", "AMOUNT", "DUE"}}
	for _, c := range concepts {
		t.rows = append(t.rows, []string{fmt.Sprint(c.ID), deref(c.Name), amount(c.Amount), deref(c.DueDate)})
	}
	return cli.emit(concepts, t)
}

func runDebts(ctx context.Context, cli *commandLine, fs *flag.FlagSet, args []string) error {
	family := fs.String("family", "", "family ID")
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, *family); err != nil {
		return err
	}
	debts, err := result(cli.api.Finance.GetFamilyDebt(ctx, *family))
	if err != nil {
		return err
	}
	return cli.emit(debts, debtTable(debts))
}

func runReportCard(ctx context.Context, cli *commandLine, fs *flag.FlagSet, args []string) error {
	studentID := fs.String("student", "", "student ID")
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, *studentID); err != nil {
		return err
	}
	rc, err := projections.QueryGetReportCard(ctx,
		projections.GetReportCardQuery{StudentID: *studentID},
		projections.GetReportCardDeps{Academic: cli.api.Academic})
	if err != nil {
		return describe(err)
	}
	t := table{header: []string{"COURSE", "UNIT", "SCORE", "COMMENTS"}}
	for _, c := range rc.Courses {
		for _, g := range c.Grades {
			t.rows = append(t.rows, []string{c.CourseName, deref(g.Unit), fmt.Sprintf("%.1f", g.Score), deref(g.Comments)})
		}
		t.rows = append(t.rows, []string{c.CourseName, "average", fmt.Sprintf("%.1f", c.Average), ""})
	}
	return cli.emit(rc, t)
}

func runFeed(ctx context.Context, cli *commandLine, fs *flag.FlagSet, args []string) error {
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	posts, err := result(cli.api.Communication.GetFeed(ctx))
	if err != nil {
		return err
	}
	t := table{header: []string{"DATE", "TYPE", "TITLE", "AUDIENCE"}}
	for _, p := range posts {
		audience := "Everyone"
		if p.TargetRole != nil {
			audience = p.TargetRole.Label()
		}
		t.rows = append(t.rows, []string{p.CreatedAt, p.Kind(), deref(p.Title), audience})
	}
	return cli.emit(posts, t)
}

func runPost(ctx context.Context, cli *commandLine, fs *flag.FlagSet, args []string) error {
	title := fs.String("title", "", "post title")
	body := fs.String("body", "", "post body (markdown)")
	kind := fs.String("type", "news", "one of: "+strings.Join(communication.PostTypes, ", "))
	role := fs.String("role", "", "audience role (1, 2 or 3); everyone when blank")
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	if r := cli.session.Snapshot().Role(); r != account.RoleAdmin && r != account.RoleTeacher {
		return fmt.Errorf("post: not available to the %s role", r.Label())
	}
	req := communication.CreatePostRequest{Title: strings.TrimSpace(*title), Body: *body, Type: *kind}
	if *role != "" {
		target := account.ParseRole(*role)
		if !target.Valid() {
			return account.ErrInvalidRole
		}
		req.TargetRole = &target
	}
	if _, err := result(cli.api.Communication.CreatePost(ctx, req)); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Post published.")
	return nil
}

func runMyChildren(ctx context.Context, cli *commandLine, fs *flag.FlagSet, args []string) error {
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	res, err := projections.QueryGetMyChildren(ctx,
		projections.GetMyChildrenQuery{GuardianID: cli.session.User().UserID},
		projections.GetMyChildrenDeps{Families: cli.api.Families, Students: cli.api.Students})
	if err != nil {
		return describe(err)
	}
	return cli.emit(res.Students, studentTable(res.Students))
}

func runMyDebts(ctx context.Context, cli *commandLine, fs *flag.FlagSet, args []string) error {
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	res, err := projections.QueryGetMyDebts(ctx,
		projections.GetMyDebtsQuery{GuardianID: cli.session.User().UserID},
		projections.GetMyDebtsDeps{Families: cli.api.Families, Debts: cli.api.Finance})
	if err != nil {
		return describe(err)
	}
	if cli.format != formatTable {
		return cli.emit(res, table{})
	}
	t := debtTable(res.Lines)
	t.footer = []string{"", "TOTAL", "", "S/ " + res.Total.String(), "", ""}
	return cli.emit(res, t)
}

func debtTable(debts []finance.FamilyDebt) table {
	t := table{header: []string{"STUDENT", "CONCEPT", "AMOUNT", "BALANCE", "STATUS", "DUE"}}
	for _, d := range debts {
		t.rows = append(t.rows, []string{
			d.StudentName(), deref(d.ConceptName),
			"S/ " + d.OriginalAmount.String(), "S/ " + d.Balance.String(),
			d.State().Label(), deref(d.DueDate),
		})
	}
	return t
}

func amount(a *finance.Amount) string {
	if a == nil {
		return "-"
	}
	return "S/ " + a.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
