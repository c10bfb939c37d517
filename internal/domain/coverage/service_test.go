package coverage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// -- Mock Repositories --

type mockAppRepo struct {
	records map[uuid.UUID]*Application
}

func newMockAppRepo() *mockAppRepo {
	return &mockAppRepo{records: make(map[uuid.UUID]*Application)}
}

func (m *mockAppRepo) Create(_ context.Context, a *Application) error {
	for _, existing := range m.records {
		if existing.PatientID == a.PatientID && existing.Status == StatusPending {
			return ErrDuplicatePendingApplication
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.records[a.ID] = a
	return nil
}
func (m *mockAppRepo) GetByID(_ context.Context, id uuid.UUID) (*Application, error) {
	a, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}
func (m *mockAppRepo) SetStatus(_ context.Context, id uuid.UUID, status string) error {
	a, ok := m.records[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	return nil
}
func (m *mockAppRepo) HasPending(_ context.Context, patientID uuid.UUID) (bool, error) {
	for _, a := range m.records {
		if a.PatientID == patientID && a.Status == StatusPending {
			return true, nil
		}
	}
	return false, nil
}
func (m *mockAppRepo) ListByInsurer(_ context.Context, insurerID uuid.UUID, limit, offset int) ([]*DashboardRow, int, error) {
	var rows []*DashboardRow
	for _, a := range m.records {
		if a.InsurerID == insurerID {
			rows = append(rows, &DashboardRow{ApplicationID: a.ID, ApplicationStatus: a.Status, PatientID: a.PatientID})
		}
	}
	return rows, len(rows), nil
}

type mockStateRepo struct {
	records map[uuid.UUID]*PatientState
}

func newMockStateRepo() *mockStateRepo {
	return &mockStateRepo{records: make(map[uuid.UUID]*PatientState)}
}

func (m *mockStateRepo) Get(_ context.Context, id uuid.UUID) (*PatientState, error) {
	p, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}
func (m *mockStateRepo) SetApplicationStatus(_ context.Context, patientID uuid.UUID, applnStatus, apptStatus string) error {
	p, ok := m.records[patientID]
	if !ok {
		return ErrNotFound
	}
	p.ApplicationStatus = &applnStatus
	p.AppointmentStatus = apptStatus
	return nil
}
func (m *mockStateRepo) SetAppointment(_ context.Context, patientID uuid.UUID, when time.Time) error {
	p, ok := m.records[patientID]
	if !ok {
		return ErrNotFound
	}
	p.AppointmentStatus = ApptScheduled
	p.AppointmentTime = &when
	return nil
}
func (m *mockStateRepo) SetDiagnosis(_ context.Context, patientID uuid.UUID, disease, riskLevel string) error {
	p, ok := m.records[patientID]
	if !ok {
		return ErrNotFound
	}
	p.Status = DiagnosisSet
	return nil
}
func (m *mockStateRepo) SetRiskLevel(_ context.Context, patientID uuid.UUID, riskLevel string) error {
	if _, ok := m.records[patientID]; !ok {
		return ErrNotFound
	}
	return nil
}

type mockDirectory struct {
	ids map[uuid.UUID]bool
}

func (m *mockDirectory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.ids[id], nil
}

type notifyCall struct {
	kind   string
	email  string
	status string
}

type mockNotifier struct {
	calls []notifyCall
}

func (m *mockNotifier) NotifyStatus(_ context.Context, email, name, status string) error {
	m.calls = append(m.calls, notifyCall{kind: "status", email: email, status: status})
	return nil
}
func (m *mockNotifier) NotifyAppointment(_ context.Context, email, name string, when time.Time) error {
	m.calls = append(m.calls, notifyCall{kind: "appointment", email: email})
	return nil
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc      *Service
	apps     *mockAppRepo
	states   *mockStateRepo
	notifier *mockNotifier

	patientID uuid.UUID
	insurerID uuid.UUID
}

func newFixture() *fixture {
	apps := newMockAppRepo()
	states := newMockStateRepo()
	notifier := &mockNotifier{}

	patientID := uuid.New()
	insurerID := uuid.New()
	states.records[patientID] = &PatientState{
		ID:                patientID,
		Name:              "Jane Roe",
		Email:             "jane@example.com",
		Status:            DiagnosisNone,
		AppointmentStatus: ApptPending,
	}
	directory := &mockDirectory{ids: map[uuid.UUID]bool{insurerID: true}}

	svc := NewService(apps, states, directory, notifier, passthroughTx, zerolog.Nop())
	return &fixture{svc: svc, apps: apps, states: states, notifier: notifier, patientID: patientID, insurerID: insurerID}
}

// -- Apply --

func TestApplyCreatesPendingApplication(t *testing.T) {
	f := newFixture()

	app, err := f.svc.Apply(context.Background(), f.patientID, f.insurerID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if app.Status != StatusPending {
		t.Errorf("expected status %q, got %q", StatusPending, app.Status)
	}

	p := f.states.records[f.patientID]
	if p.ApplicationStatus == nil || *p.ApplicationStatus != StatusPending {
		t.Errorf("patient application status not set to pending")
	}
	if p.AppointmentStatus != ApptPending {
		t.Errorf("expected appointment status %q, got %q", ApptPending, p.AppointmentStatus)
	}
}

func TestApplyRejectsDuplicatePending(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Apply(context.Background(), f.patientID, f.insurerID); err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}
	if _, err := f.svc.Apply(context.Background(), f.patientID, f.insurerID); err != ErrDuplicatePendingApplication {
		t.Fatalf("expected ErrDuplicatePendingApplication, got %v", err)
	}
	if len(f.apps.records) != 1 {
		t.Errorf("expected 1 application, got %d", len(f.apps.records))
	}
}

func TestApplyRejectsAlreadyCovered(t *testing.T) {
	f := newFixture()

	accepted := StatusAccepted
	f.states.records[f.patientID].ApplicationStatus = &accepted

	if _, err := f.svc.Apply(context.Background(), f.patientID, f.insurerID); err != ErrAlreadyCovered {
		t.Fatalf("expected ErrAlreadyCovered, got %v", err)
	}
}

func TestApplyAfterDeclineAllowed(t *testing.T) {
	f := newFixture()

	app, err := f.svc.Apply(context.Background(), f.patientID, f.insurerID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := f.svc.Decide(context.Background(), f.insurerID, app.ID, StatusDeclined); err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if _, err := f.svc.Apply(context.Background(), f.patientID, f.insurerID); err != nil {
		t.Fatalf("re-apply after decline failed: %v", err)
	}
}

func TestApplyUnknownInsurer(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Apply(context.Background(), f.patientID, uuid.New()); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplyUnknownPatient(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Apply(context.Background(), uuid.New(), f.insurerID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// -- Decide --

func TestDecideAccept(t *testing.T) {
	f := newFixture()

	app, _ := f.svc.Apply(context.Background(), f.patientID, f.insurerID)

	decided, err := f.svc.Decide(context.Background(), f.insurerID, app.ID, StatusAccepted)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decided.Status != StatusAccepted {
		t.Errorf("expected status %q, got %q", StatusAccepted, decided.Status)
	}

	p := f.states.records[f.patientID]
	if p.ApplicationStatus == nil || *p.ApplicationStatus != StatusAccepted {
		t.Errorf("patient application status not accepted")
	}
	if p.AppointmentStatus != ApptPending {
		t.Errorf("decision should reset appointment status to pending, got %q", p.AppointmentStatus)
	}

	if len(f.notifier.calls) != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", len(f.notifier.calls))
	}
	call := f.notifier.calls[0]
	if call.kind != "status" || call.status != StatusAccepted || call.email != "jane@example.com" {
		t.Errorf("unexpected notification: %+v", call)
	}
}

func TestDecideInvalidValue(t *testing.T) {
	f := newFixture()

	app, _ := f.svc.Apply(context.Background(), f.patientID, f.insurerID)
	if _, err := f.svc.Decide(context.Background(), f.insurerID, app.ID, "maybe"); err != ErrInvalidDecision {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
	if len(f.notifier.calls) != 0 {
		t.Errorf("no notification should be sent on invalid decision")
	}
}

func TestDecideWrongInsurer(t *testing.T) {
	f := newFixture()

	app, _ := f.svc.Apply(context.Background(), f.patientID, f.insurerID)
	if _, err := f.svc.Decide(context.Background(), uuid.New(), app.ID, StatusAccepted); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDecideAlreadyDecided(t *testing.T) {
	f := newFixture()

	app, _ := f.svc.Apply(context.Background(), f.patientID, f.insurerID)
	if _, err := f.svc.Decide(context.Background(), f.insurerID, app.ID, StatusAccepted); err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if _, err := f.svc.Decide(context.Background(), f.insurerID, app.ID, StatusDeclined); err != ErrInvalidDecision {
		t.Fatalf("expected ErrInvalidDecision on second decision, got %v", err)
	}
}

// -- Book --

func TestBookSchedulesAppointment(t *testing.T) {
	f := newFixture()

	app, _ := f.svc.Apply(context.Background(), f.patientID, f.insurerID)
	f.svc.Decide(context.Background(), f.insurerID, app.ID, StatusAccepted)

	when := time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC)
	if err := f.svc.Book(context.Background(), f.insurerID, app.ID, when); err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	p := f.states.records[f.patientID]
	if p.AppointmentStatus != ApptScheduled {
		t.Errorf("expected appointment status %q, got %q", ApptScheduled, p.AppointmentStatus)
	}
	if p.AppointmentTime == nil || !p.AppointmentTime.Equal(when) {
		t.Errorf("appointment time not stored")
	}

	// decision + appointment
	if len(f.notifier.calls) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(f.notifier.calls))
	}
	if f.notifier.calls[1].kind != "appointment" {
		t.Errorf("expected appointment notification, got %+v", f.notifier.calls[1])
	}
}

func TestBookRequiresAcceptedApplication(t *testing.T) {
	f := newFixture()

	app, _ := f.svc.Apply(context.Background(), f.patientID, f.insurerID)

	err := f.svc.Book(context.Background(), f.insurerID, app.ID, time.Now().Add(24*time.Hour))
	if err != ErrApplicationNotAccepted {
		t.Fatalf("expected ErrApplicationNotAccepted, got %v", err)
	}
}

func TestBookTwiceLeavesAppointmentUnchanged(t *testing.T) {
	f := newFixture()

	app, _ := f.svc.Apply(context.Background(), f.patientID, f.insurerID)
	f.svc.Decide(context.Background(), f.insurerID, app.ID, StatusAccepted)

	first := time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC)
	if err := f.svc.Book(context.Background(), f.insurerID, app.ID, first); err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	second := first.Add(48 * time.Hour)
	if err := f.svc.Book(context.Background(), f.insurerID, app.ID, second); err != ErrAlreadyScheduled {
		t.Fatalf("expected ErrAlreadyScheduled, got %v", err)
	}

	p := f.states.records[f.patientID]
	if !p.AppointmentTime.Equal(first) {
		t.Errorf("appointment time changed on rejected double booking")
	}
}

func TestBookWrongInsurer(t *testing.T) {
	f := newFixture()

	app, _ := f.svc.Apply(context.Background(), f.patientID, f.insurerID)
	f.svc.Decide(context.Background(), f.insurerID, app.ID, StatusAccepted)

	err := f.svc.Book(context.Background(), uuid.New(), app.ID, time.Now().Add(time.Hour))
	if err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

// -- Classification / Risk --

func TestApplyClassification(t *testing.T) {
	f := newFixture()

	if err := f.svc.ApplyClassification(context.Background(), f.patientID, "Depression", "High"); err != nil {
		t.Fatalf("ApplyClassification failed: %v", err)
	}
	if f.states.records[f.patientID].Status != DiagnosisSet {
		t.Errorf("patient not marked diagnosed")
	}
}

func TestApplyClassificationRejectsNotApplicable(t *testing.T) {
	f := newFixture()

	if err := f.svc.ApplyClassification(context.Background(), f.patientID, "N/A", "Low"); err != ErrNotApplicable {
		t.Fatalf("expected ErrNotApplicable, got %v", err)
	}
	if err := f.svc.ApplyClassification(context.Background(), f.patientID, "", "Low"); err != ErrNotApplicable {
		t.Fatalf("expected ErrNotApplicable for empty disease, got %v", err)
	}
}

func TestApplyRiskLevelUnknownPatient(t *testing.T) {
	f := newFixture()

	if err := f.svc.ApplyRiskLevel(context.Background(), uuid.New(), "High"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
