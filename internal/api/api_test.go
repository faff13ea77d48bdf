package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashstudy/internal/api"
	"github.com/vytor/flashstudy/internal/csrf"
	"github.com/vytor/flashstudy/internal/db"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository/sqlite"
	"github.com/vytor/flashstudy/internal/services"
	"github.com/vytor/flashstudy/internal/sessionclient"
	"github.com/vytor/flashstudy/internal/study"
	"github.com/vytor/flashstudy/internal/testutil"
	"github.com/vytor/flashstudy/internal/testutil/mocks"
)

type APISuite struct {
	suite.Suite
	db     *sql.DB
	gen    *mocks.MockGenerator
	srv    *httptest.Server
	client *http.Client
	setID  uuid.UUID
	token  string
}

func (s *APISuite) SetupSuite() {
	logger.SetDefault(logger.Discard())
}

func (s *APISuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	setRepo := sqlite.NewSetRepository(s.db)
	progressRepo := sqlite.NewProgressRepository(s.db)
	s.gen = &mocks.MockGenerator{}

	tmpl, err := api.LoadTemplates()
	s.Require().NoError(err)

	server := &api.Server{
		DB:                &db.DB{DB: s.db},
		SetService:        services.NewSetService(setRepo),
		StudyService:      services.NewStudyService(setRepo, progressRepo),
		GenerationService: services.NewGenerationService(setRepo, s.gen, nil),
		Sessions:          api.NewSessionStore([]byte("test-session-secret-0123456789ab"), false),
		Templates:         tmpl,
	}
	s.srv = httptest.NewServer(server.Routes())

	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	s.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	s.setID, err = setRepo.Create(context.Background(), models.FlashcardSet{
		Title:      "Capitals",
		Subject:    "Geography",
		Difficulty: "Easy",
	}, testutil.Cards(3))
	s.Require().NoError(err)

	s.token = s.takeBootstrap().CSRFToken
	s.Require().NotEmpty(s.token)
}

func (s *APISuite) TearDownTest() {
	s.srv.Close()
	testutil.MustClose(s.T(), s.db)
	s.gen.AssertExpectations(s.T())
}

func (s *APISuite) url(path string) string {
	return s.srv.URL + path
}

func (s *APISuite) get(path string, accept string) *http.Response {
	req, err := http.NewRequest(http.MethodGet, s.url(path), nil)
	s.Require().NoError(err)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	s.T().Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *APISuite) post(path, contentType string, body io.Reader, token string) *http.Response {
	req, err := http.NewRequest(http.MethodPost, s.url(path), body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(csrf.HeaderName, token)
	}
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	s.T().Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *APISuite) postJSON(path string, body any) *http.Response {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)
	return s.post(path, "application/json", bytes.NewReader(payload), s.token)
}

func (s *APISuite) decode(resp *http.Response, out any) {
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
}

func (s *APISuite) takeBootstrap() study.Bootstrap {
	resp := s.get("/flashcards/"+s.setID.String()+"/take", "application/json")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var boot study.Bootstrap
	s.decode(resp, &boot)
	return boot
}

func (s *APISuite) summary() models.SummaryReport {
	resp := s.get("/flashcards/"+s.setID.String()+"/summary", "application/json")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var report models.SummaryReport
	s.decode(resp, &report)
	return report
}

func (s *APISuite) TestHealthAndReady() {
	resp := s.get("/health", "")
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.get("/ready", "")
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *APISuite) TestTakeBootstrapStartsRegular() {
	boot := s.takeBootstrap()

	s.Len(boot.Cards, 3)
	s.Equal("front 1", boot.InitialCard.Front)
	s.Zero(boot.StartIndex)
	s.Equal(3, boot.TotalCards)
	s.False(boot.StudyMode)
	s.Equal("/reset-flashcards-ajax/"+s.setID.String(), boot.ResetURL)
	s.Equal("/answer-flashcard-ajax/"+s.setID.String(), boot.AnswerURL)
	s.Equal(s.token, boot.CSRFToken)
}

func (s *APISuite) TestTakePageEmbedsBundle() {
	resp := s.get("/flashcards/"+s.setID.String()+"/take", "text/html")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	page := string(body)
	s.Contains(page, `id="flashcard-data"`)
	s.Contains(page, `"allFlashcards"`)
	s.Contains(page, "Capitals")
}

func (s *APISuite) TestMutationsRequireCSRF() {
	resp := s.post("/reset-flashcards-ajax/"+s.setID.String(), "application/json", strings.NewReader(`{"mode":"study"}`), "")
	s.Equal(http.StatusForbidden, resp.StatusCode)

	resp = s.post("/reset-flashcards-ajax/"+s.setID.String(), "application/json", strings.NewReader(`{"mode":"study"}`), "wrong")
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *APISuite) TestStudyResumeAndFormFallback() {
	resp := s.postJSON("/reset-flashcards-ajax/"+s.setID.String(), map[string]string{"mode": "study"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var ack struct {
		OK   bool   `json:"ok"`
		Mode string `json:"mode"`
	}
	s.decode(resp, &ack)
	s.True(ack.OK)
	s.Equal("study", ack.Mode)

	answer := func(action string) *http.Response {
		form := url.Values{csrf.FormField: {s.token}}
		return s.post("/answer-flashcard/"+s.setID.String()+"/"+action,
			"application/x-www-form-urlencoded", strings.NewReader(form.Encode()), "")
	}

	resp = answer("known")
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/flashcards/"+s.setID.String()+"/take", resp.Header.Get("Location"))

	boot := s.takeBootstrap()
	s.True(boot.StudyMode)
	s.Equal(1, boot.StartIndex)
	s.Equal("front 2", boot.InitialCard.Front)

	answer("not_known")
	resp = answer("known")
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/flashcards/"+s.setID.String()+"/summary", resp.Header.Get("Location"))

	report := s.summary()
	s.Equal(2, report.Known)
	s.Equal(1, report.NotKnown)
	s.Equal(3, report.Total)
	s.InDelta(66.666, report.KnownPercent, 0.01)

	s.False(s.takeBootstrap().StudyMode)
}

func (s *APISuite) TestAnswerWithoutProgress() {
	form := url.Values{csrf.FormField: {s.token}}
	resp := s.post("/answer-flashcard/"+s.setID.String()+"/known",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()), "")
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *APISuite) TestAnswerAjaxSummaryIsPoppedOnce() {
	resp := s.postJSON("/answer-flashcard-ajax/"+s.setID.String(), models.SessionSummary{Known: 4, NotKnown: 1, Total: 5})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var ack study.ResultsAck
	s.decode(resp, &ack)
	s.Equal(study.ResultsAck{Completed: true, Known: 4, NotKnown: 1, Total: 5}, ack)

	report := s.summary()
	s.Equal(5, report.Total)
	s.InDelta(80.0, report.KnownPercent, 0.001)
	s.InDelta(20.0, report.NotKnownPercent, 0.001)

	report = s.summary()
	s.Zero(report.Total)
	s.Zero(report.KnownPercent)
}

func (s *APISuite) TestResetClearsStoredSummary() {
	s.postJSON("/answer-flashcard-ajax/"+s.setID.String(), models.SessionSummary{Known: 1, Total: 1})

	resp := s.postJSON("/reset-flashcards-ajax/"+s.setID.String(), map[string]string{})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var ack struct {
		Mode string `json:"mode"`
	}
	s.decode(resp, &ack)
	s.Equal("regular", ack.Mode)

	s.Zero(s.summary().Total)
}

func (s *APISuite) TestBadRequests() {
	resp := s.post("/answer-flashcard-ajax/"+s.setID.String(), "application/json", strings.NewReader(""), s.token)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.post("/flashcard-nav-ajax/"+s.setID.String(), "application/json", strings.NewReader(`{"current_index":"x"}`), s.token)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.postJSON("/reset-flashcards-ajax/"+s.setID.String(), map[string]string{"mode": "cram"})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.get("/flashcards/not-a-uuid/take", "application/json")
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.get("/flashcards/"+uuid.NewString()+"/take", "application/json")
	s.Equal(http.StatusNotFound, resp.StatusCode)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	s.decode(resp, &body)
	s.Equal("NOT_FOUND", body.Error.Code)
}

func (s *APISuite) TestNavAjaxClamps() {
	tests := []struct {
		dir     string
		current int
		want    int
		front   string
	}{
		{"next", 0, 1, "front 2"},
		{"next", 2, 2, "front 3"},
		{"prev", 0, 0, "front 1"},
		{"prev", 2, 1, "front 2"},
	}
	for _, tt := range tests {
		resp := s.postJSON("/flashcard-nav-ajax/"+s.setID.String(), map[string]any{
			"direction":     tt.dir,
			"current_index": tt.current,
		})
		s.Require().Equal(http.StatusOK, resp.StatusCode)
		var nav models.NavResult
		s.decode(resp, &nav)
		s.Equal(tt.want, nav.CurrentIndex, "%s from %d", tt.dir, tt.current)
		s.Equal(tt.front, nav.Card.Front)
		s.Equal(3, nav.Total)
	}
}

func (s *APISuite) TestSetCRUD() {
	resp := s.postJSON("/flashcards", models.CreateSetInput{
		Title: "Elements",
		Cards: []models.Card{{Front: "H", Back: "Hydrogen"}, {Front: "He", Back: "Helium"}},
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var created models.FlashcardSet
	s.decode(resp, &created)
	s.Equal("General", created.Subject)
	s.Equal(2, created.CardCount)

	resp = s.get("/flashcards/"+created.ID.String(), "application/json")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var withCards models.FlashcardSetWithCards
	s.decode(resp, &withCards)
	s.Equal([]models.Card{{Front: "H", Back: "Hydrogen"}, {Front: "He", Back: "Helium"}}, withCards.StudyCards())

	resp = s.get("/flashcards/", "application/json")
	var list struct {
		Total int `json:"total"`
	}
	s.decode(resp, &list)
	s.Equal(2, list.Total)

	resp = s.postJSON("/flashcards", models.CreateSetInput{Title: "Empty"})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.postJSON("/flashcards/"+created.ID.String()+"/delete", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp = s.get("/flashcards/"+created.ID.String(), "application/json")
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *APISuite) TestSetListPage() {
	resp := s.get("/flashcards", "text/html")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Contains(string(body), "Capitals")
	s.Contains(string(body), s.token)
}

func (s *APISuite) aiForm(values url.Values) models.GenerateResult {
	resp := s.post("/create-ai-activity/flashcards", "application/x-www-form-urlencoded",
		strings.NewReader(values.Encode()), s.token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var result models.GenerateResult
	s.decode(resp, &result)
	return result
}

func (s *APISuite) TestCreateAIActivity() {
	s.gen.On("Generate", mock.Anything, models.GenerateRequest{
		ActivityType: models.ActivityFlashcards,
		Prompt:       "noble gases",
		Amount:       2,
		Difficulty:   "Hard",
	}, "").Return(models.GeneratedSet{
		Title:      "Noble gases",
		Subject:    "Chemistry",
		Difficulty: "Hard",
		Flashcards: []models.Card{{Front: "Ne", Back: "Neon"}, {Front: "Ar", Back: "Argon"}},
	}, models.GenerationUsage{TotalTokens: 10}, nil).Once()

	result := s.aiForm(url.Values{"prompt": {"noble gases"}, "amount": {"2"}, "difficulty": {"Hard"}})
	s.True(result.Success)
	s.Equal("/flashcards/", result.RedirectURL)

	resp := s.get("/flashcards?subject=Chemistry", "application/json")
	var list struct {
		Sets  []models.FlashcardSet `json:"sets"`
		Total int                   `json:"total"`
	}
	s.decode(resp, &list)
	s.Require().Equal(1, list.Total)
	s.Equal("Noble gases", list.Sets[0].Title)
}

func (s *APISuite) TestCreateAIActivityFailuresStayOK() {
	s.gen.On("Generate", mock.Anything, mock.Anything, "").
		Return(models.GeneratedSet{}, models.GenerationUsage{}, errors.New("quota exceeded")).Once()

	result := s.aiForm(url.Values{"prompt": {"anything"}})
	s.False(result.Success)
	s.Equal("generation request failed", result.Error)

	result = s.aiForm(url.Values{})
	s.False(result.Success)
	s.Contains(result.Error, "prompt")

	resp := s.post("/create-ai-activity/quiz", "application/x-www-form-urlencoded",
		strings.NewReader("prompt=x"), s.token)
	var rejected models.GenerateResult
	s.decode(resp, &rejected)
	s.False(rejected.Success)
	s.Contains(rejected.Error, "unsupported activity type")
}

func (s *APISuite) TestSessionClientRoundTrip() {
	ctx := context.Background()
	c, err := sessionclient.New(s.srv.URL, sessionclient.WithLogger(logger.Discard()))
	s.Require().NoError(err)

	boot, err := c.FetchBootstrap(ctx, s.setID.String())
	s.Require().NoError(err)
	syncer := c.Syncer(boot)

	s.Require().NoError(syncer.ResetSession(ctx, models.ModeStudy))
	ack, err := syncer.SubmitResults(ctx, models.SessionSummary{Known: 2, NotKnown: 1, Total: 3})
	s.Require().NoError(err)
	s.True(ack.Completed)
	s.Equal(3, ack.Total)

	boot, err = c.FetchBootstrap(ctx, s.setID.String())
	s.Require().NoError(err)
	s.True(boot.StudyMode)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}
