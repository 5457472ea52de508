package grpcserver

import (
	"context"
	"log"
	"math"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"vacationManagement/internal/apperr"
	"vacationManagement/internal/vacation"
	"vacationManagement/models"
)

// Lifecycle is the vacation service used by VacationServer.
type Lifecycle interface {
	Create(ctx context.Context, in vacation.CreateInput) (*models.Vacation, error)
	ListOwn(ctx context.Context) ([]models.Vacation, error)
	ListAll(ctx context.Context, f vacation.ListFilter) ([]models.Vacation, error)
	Transition(ctx context.Context, id int64, action vacation.Action) (*models.Vacation, error)
}

// Authenticator checks login credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// SessionIssuer starts sessions for authenticated users.
type SessionIssuer interface {
	Issue(ctx context.Context, u *models.User) (string, error)
}

// VacationServer implements hr.v1.VacationService.
type VacationServer struct {
	Vacations Lifecycle
	Users     Authenticator
	Sessions  SessionIssuer
}

var _ VacationServiceServer = (*VacationServer)(nil)

// Login returns a bearer token for subsequent calls.
func (s *VacationServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	u, err := s.Users.Authenticate(ctx, stringField(req, "email"), stringField(req, "password"))
	if err != nil {
		return nil, toStatus("Login", err)
	}
	token, err := s.Sessions.Issue(ctx, u)
	if err != nil {
		return nil, toStatus("Login", err)
	}
	return structpb.NewStruct(map[string]any{
		"token": token,
		"role":  string(u.Role),
		"name":  u.Name,
	})
}

// ListOwn returns the caller's vacations.
func (s *VacationServer) ListOwn(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	list, err := s.Vacations.ListOwn(ctx)
	if err != nil {
		return nil, toStatus("ListOwn", err)
	}
	return vacationList(list)
}

// ListAll returns every vacation, optionally filtered by "status" and "user_id".
func (s *VacationServer) ListAll(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := vacation.ListFilter{Status: stringField(req, "status")}
	if v, ok := req.GetFields()["user_id"]; ok {
		// Rejected by the service after the role check.
		f.UserID = -1
		if id, ok := positiveInt(v); ok {
			f.UserID = id
		}
	}
	list, err := s.Vacations.ListAll(ctx, f)
	if err != nil {
		return nil, toStatus("ListAll", err)
	}
	return vacationList(list)
}

// Create files a vacation request for the caller.
func (s *VacationServer) Create(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in := vacation.CreateInput{
		StartDate: stringField(req, "start_date"),
		EndDate:   stringField(req, "end_date"),
	}
	if v, ok := req.GetFields()["reason"]; ok {
		if _, isNull := v.GetKind().(*structpb.Value_NullValue); !isNull {
			reason := v.GetStringValue()
			in.Reason = &reason
		}
	}
	v, err := s.Vacations.Create(ctx, in)
	if err != nil {
		return nil, toStatus("Create", err)
	}
	return vacationResponse(v)
}

// Approve moves the vacation "id" to approved.
func (s *VacationServer) Approve(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.transition(ctx, "Approve", req, vacation.ActionApprove)
}

// Decline moves the vacation "id" to declined.
func (s *VacationServer) Decline(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.transition(ctx, "Decline", req, vacation.ActionDecline)
}

func (s *VacationServer) transition(ctx context.Context, method string, req *structpb.Struct, action vacation.Action) (*structpb.Struct, error) {
	id, err := idField(req)
	if err != nil {
		return nil, toStatus(method, err)
	}
	v, err := s.Vacations.Transition(ctx, id, action)
	if err != nil {
		return nil, toStatus(method, err)
	}
	return vacationResponse(v)
}

// idField reads "id" as a positive whole number or a digit string.
func idField(req *structpb.Struct) (int64, error) {
	if id, ok := positiveInt(req.GetFields()["id"]); ok {
		return id, nil
	}
	return vacation.ParseID("")
}

// positiveInt accepts a positive whole number that fits int64, or a digit string.
func positiveInt(v *structpb.Value) (int64, bool) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n != math.Trunc(n) || n <= 0 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case *structpb.Value_StringValue:
		id, err := vacation.ParseID(strings.TrimSpace(k.StringValue))
		return id, err == nil
	}
	return 0, false
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

func vacationFields(v *models.Vacation) map[string]any {
	var reason any
	if v.Reason != nil {
		reason = *v.Reason
	}
	return map[string]any{
		"id":         v.ID,
		"user_id":    v.UserID,
		"start_date": v.StartDate,
		"end_date":   v.EndDate,
		"status":     string(v.Status),
		"reason":     reason,
		"created_at": v.CreatedAt,
	}
}

func vacationResponse(v *models.Vacation) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"vacation": vacationFields(v)})
}

func vacationList(list []models.Vacation) (*structpb.Struct, error) {
	items := make([]any, 0, len(list))
	for i := range list {
		items = append(items, vacationFields(&list[i]))
	}
	return structpb.NewStruct(map[string]any{"vacations": items})
}

// toStatus maps error kinds onto gRPC codes. Unexpected errors are logged and hidden.
func toStatus(method string, err error) error {
	e, ok := apperr.As(err)
	if !ok {
		log.Printf("grpc %s: %v", method, err)
		return status.Error(codes.Internal, "Internal server error")
	}
	switch e.Kind {
	case apperr.KindValidation:
		return status.Error(codes.InvalidArgument, e.Message)
	case apperr.KindAuthentication:
		return status.Error(codes.Unauthenticated, e.Message)
	case apperr.KindAuthorization:
		return status.Error(codes.PermissionDenied, e.Message)
	case apperr.KindNotFound:
		return status.Error(codes.NotFound, e.Message)
	case apperr.KindConflict:
		return status.Error(codes.FailedPrecondition, e.Message)
	}
	return status.Error(codes.Internal, e.Message)
}
