package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roksva123/go-bizadmin-backend/internal/apperror"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
)

const (
	collEmployees  = "employees"
	collAttendance = "attendance"
	collPayments   = "payments"
	collAdmins     = "admins"
)

type MongoRepo struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoRepo connects to uri and verifies the deployment with a ping.
func NewMongoRepo(ctx context.Context, uri, database string) (*MongoRepo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &MongoRepo{client: client, db: client.Database(database)}, nil
}

// NewMongoRepoWithDatabase wraps an already connected database.
func NewMongoRepoWithDatabase(db *mongo.Database) *MongoRepo {
	return &MongoRepo{client: db.Client(), db: db}
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func (r *MongoRepo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoRepo) RunMigrations(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collAdmins: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collEmployees: {
			{Keys: bson.D{{Key: "aadhar_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		collAttendance: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "date", Value: -1}}},
		},
		collPayments: {
			{Keys: bson.D{{Key: "date", Value: -1}}},
			{
				Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "period", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.D{{Key: "type", Value: model.PaymentSalary}}),
			},
		},
	}

	for _, coll := range []string{collAdmins, collEmployees, collAttendance, collPayments} {
		if _, err := r.db.Collection(coll).Indexes().CreateMany(ctx, indexes[coll]); err != nil {
			return apperror.DB{Err: fmt.Errorf("create %s indexes: %w", coll, err)}
		}
	}
	return nil
}

// ---- documents ----

type adminDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

type employeeDoc struct {
	ID          string               `bson:"_id"`
	Name        string               `bson:"name"`
	Age         int                  `bson:"age"`
	Gender      string               `bson:"gender"`
	Phone       string               `bson:"phone"`
	Email       string               `bson:"email,omitempty"`
	AadharID    string               `bson:"aadhar_id"`
	Address     string               `bson:"address,omitempty"`
	Designation string               `bson:"designation"`
	Department  string               `bson:"department,omitempty"`
	Salary      primitive.Decimal128 `bson:"salary"`
	JoiningDate string               `bson:"joining_date"`
	Status      string               `bson:"status"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

type attendanceDoc struct {
	ID           string    `bson:"_id"`
	EmployeeID   string    `bson:"employee_id"`
	EmployeeName string    `bson:"employee_name"`
	Date         string    `bson:"date"`
	Status       string    `bson:"status"`
	CheckIn      string    `bson:"check_in,omitempty"`
	CheckOut     string    `bson:"check_out,omitempty"`
	Notes        string    `bson:"notes,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type paymentDoc struct {
	ID           string               `bson:"_id"`
	EmployeeID   string               `bson:"employee_id"`
	EmployeeName string               `bson:"employee_name"`
	Amount       primitive.Decimal128 `bson:"amount"`
	Date         string               `bson:"date"`
	Type         string               `bson:"type"`
	Method       string               `bson:"method"`
	Period       string               `bson:"period,omitempty"`
	Reference    string               `bson:"reference,omitempty"`
	Notes        string               `bson:"notes,omitempty"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}

func newEmployeeDoc(e *model.Employee) (*employeeDoc, error) {
	salary, err := toDecimal128(e.Salary)
	if err != nil {
		return nil, err
	}
	return &employeeDoc{
		ID: e.ID, Name: e.Name, Age: e.Age, Gender: e.Gender, Phone: e.Phone, Email: e.Email,
		AadharID: e.AadharID, Address: e.Address, Designation: e.Designation, Department: e.Department,
		Salary: salary, JoiningDate: e.JoiningDate, Status: e.Status, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
	}, nil
}

func (d *employeeDoc) model() (*model.Employee, error) {
	salary, err := fromDecimal128(d.Salary)
	if err != nil {
		return nil, err
	}
	return &model.Employee{
		ID: d.ID, Name: d.Name, Age: d.Age, Gender: d.Gender, Phone: d.Phone, Email: d.Email,
		AadharID: d.AadharID, Address: d.Address, Designation: d.Designation, Department: d.Department,
		Salary: salary, JoiningDate: d.JoiningDate, Status: d.Status, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}, nil
}

func newAttendanceDoc(a *model.Attendance) *attendanceDoc {
	return &attendanceDoc{
		ID: a.ID, EmployeeID: a.EmployeeID, EmployeeName: a.EmployeeName, Date: a.Date, Status: a.Status,
		CheckIn: a.CheckIn, CheckOut: a.CheckOut, Notes: a.Notes, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	}
}

func (d *attendanceDoc) model() *model.Attendance {
	return &model.Attendance{
		ID: d.ID, EmployeeID: d.EmployeeID, EmployeeName: d.EmployeeName, Date: d.Date, Status: d.Status,
		CheckIn: d.CheckIn, CheckOut: d.CheckOut, Notes: d.Notes, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func newPaymentDoc(p *model.Payment) (*paymentDoc, error) {
	amount, err := toDecimal128(p.Amount)
	if err != nil {
		return nil, err
	}
	return &paymentDoc{
		ID: p.ID, EmployeeID: p.EmployeeID, EmployeeName: p.EmployeeName, Amount: amount, Date: p.Date,
		Type: p.Type, Method: p.Method, Period: p.Period, Reference: p.Reference, Notes: p.Notes,
		CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}, nil
}

func (d *paymentDoc) model() (*model.Payment, error) {
	amount, err := fromDecimal128(d.Amount)
	if err != nil {
		return nil, err
	}
	return &model.Payment{
		ID: d.ID, EmployeeID: d.EmployeeID, EmployeeName: d.EmployeeName, Amount: amount, Date: d.Date,
		Type: d.Type, Method: d.Method, Period: d.Period, Reference: d.Reference, Notes: d.Notes,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}, nil
}

// ---- admins ----

func (r *MongoRepo) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var d adminDoc
	err := r.db.Collection(collAdmins).FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&d)
	if err != nil {
		return nil, mongoNotFoundOr(err, "admin", username)
	}
	return &model.Admin{ID: d.ID, Username: d.Username, PasswordHash: d.PasswordHash, CreatedAt: d.CreatedAt}, nil
}

func (r *MongoRepo) UpsertAdmin(ctx context.Context, username, passwordHash string) error {
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "password_hash", Value: passwordHash}}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "_id", Value: uuid.NewString()},
			{Key: "created_at", Value: time.Now().UTC()},
		}},
	}

	_, err := r.db.Collection(collAdmins).UpdateOne(ctx,
		bson.D{{Key: "username", Value: username}}, update, options.Update().SetUpsert(true))
	if err != nil {
		return apperror.DB{Err: err}
	}
	return nil
}

// ---- employees ----

func (r *MongoRepo) CreateEmployee(ctx context.Context, e *model.Employee) error {
	d, err := newEmployeeDoc(e)
	if err != nil {
		return apperror.DB{Err: err}
	}
	_, err = r.db.Collection(collEmployees).InsertOne(ctx, d)
	return mongoWriteErr(err, "employee", e.ID)
}

func (r *MongoRepo) findEmployee(ctx context.Context, filter bson.D, key string) (*model.Employee, error) {
	var d employeeDoc
	if err := r.db.Collection(collEmployees).FindOne(ctx, filter).Decode(&d); err != nil {
		return nil, mongoNotFoundOr(err, "employee", key)
	}

	e, err := d.model()
	if err != nil {
		return nil, apperror.DB{Err: err}
	}
	return e, nil
}

func (r *MongoRepo) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	return r.findEmployee(ctx, bson.D{{Key: "_id", Value: id}}, id)
}

func (r *MongoRepo) FindEmployeeByAadhar(ctx context.Context, aadhar string) (*model.Employee, error) {
	return r.findEmployee(ctx, bson.D{{Key: "aadhar_id", Value: aadhar}}, aadhar)
}

func (r *MongoRepo) ListEmployees(ctx context.Context, f model.EmployeeFilter) ([]model.Employee, error) {
	filter := bson.D{}
	filter = appendEq(filter, "status", f.Status)
	filter = appendEq(filter, "department", f.Department)
	if f.Search != "" {
		filter = append(filter, bson.E{Key: "name", Value: primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}})
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})

	var docs []employeeDoc
	if err := r.findAll(ctx, collEmployees, filter, opts, &docs); err != nil {
		return nil, err
	}

	out := make([]model.Employee, 0, len(docs))
	for i := range docs {
		e, err := docs[i].model()
		if err != nil {
			return nil, apperror.DB{Err: err}
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *MongoRepo) UpdateEmployee(ctx context.Context, e *model.Employee) error {
	d, err := newEmployeeDoc(e)
	if err != nil {
		return apperror.DB{Err: err}
	}

	set := bson.D{
		{Key: "name", Value: d.Name}, {Key: "age", Value: d.Age}, {Key: "gender", Value: d.Gender},
		{Key: "phone", Value: d.Phone}, {Key: "email", Value: d.Email}, {Key: "aadhar_id", Value: d.AadharID},
		{Key: "address", Value: d.Address}, {Key: "designation", Value: d.Designation},
		{Key: "department", Value: d.Department}, {Key: "salary", Value: d.Salary},
		{Key: "joining_date", Value: d.JoiningDate}, {Key: "status", Value: d.Status},
		{Key: "updated_at", Value: d.UpdatedAt},
	}

	res, err := r.db.Collection(collEmployees).UpdateOne(ctx, bson.D{{Key: "_id", Value: e.ID}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return mongoWriteErr(err, "employee", e.ID)
	}
	return matched(res.MatchedCount, "employee", e.ID)
}

func (r *MongoRepo) DeleteEmployee(ctx context.Context, id string) error {
	return r.deleteOne(ctx, collEmployees, "employee", id)
}

// ---- attendance ----

func (r *MongoRepo) CreateAttendance(ctx context.Context, a *model.Attendance) error {
	_, err := r.db.Collection(collAttendance).InsertOne(ctx, newAttendanceDoc(a))
	return mongoWriteErr(err, "attendance", a.ID)
}

func (r *MongoRepo) GetAttendance(ctx context.Context, id string) (*model.Attendance, error) {
	var d attendanceDoc
	if err := r.db.Collection(collAttendance).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&d); err != nil {
		return nil, mongoNotFoundOr(err, "attendance", id)
	}
	return d.model(), nil
}

func (r *MongoRepo) ListAttendance(ctx context.Context, f model.AttendanceFilter) ([]model.Attendance, error) {
	filter := bson.D{}
	filter = appendEq(filter, "employee_id", f.EmployeeID)
	filter = appendEq(filter, "status", f.Status)
	filter = appendRange(filter, "date", f.From, f.To)

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "employee_name", Value: 1}})

	var docs []attendanceDoc
	if err := r.findAll(ctx, collAttendance, filter, opts, &docs); err != nil {
		return nil, err
	}

	out := make([]model.Attendance, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].model())
	}
	return out, nil
}

func (r *MongoRepo) UpdateAttendance(ctx context.Context, a *model.Attendance) error {
	set := bson.D{
		{Key: "status", Value: a.Status}, {Key: "check_in", Value: a.CheckIn}, {Key: "check_out", Value: a.CheckOut},
		{Key: "notes", Value: a.Notes}, {Key: "updated_at", Value: a.UpdatedAt},
	}

	res, err := r.db.Collection(collAttendance).UpdateOne(ctx, bson.D{{Key: "_id", Value: a.ID}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return apperror.DB{Err: err}
	}
	return matched(res.MatchedCount, "attendance", a.ID)
}

func (r *MongoRepo) DeleteAttendance(ctx context.Context, id string) error {
	return r.deleteOne(ctx, collAttendance, "attendance", id)
}

func (r *MongoRepo) DeleteAttendanceByEmployee(ctx context.Context, employeeID string) (int64, error) {
	return r.deleteMany(ctx, collAttendance, employeeID)
}

// ---- payments ----

func (r *MongoRepo) CreatePayment(ctx context.Context, p *model.Payment) error {
	d, err := newPaymentDoc(p)
	if err != nil {
		return apperror.DB{Err: err}
	}
	_, err = r.db.Collection(collPayments).InsertOne(ctx, d)
	return mongoWriteErr(err, "payment", p.ID)
}

func (r *MongoRepo) findPayment(ctx context.Context, filter bson.D, entity, key string) (*model.Payment, error) {
	var d paymentDoc
	if err := r.db.Collection(collPayments).FindOne(ctx, filter).Decode(&d); err != nil {
		return nil, mongoNotFoundOr(err, entity, key)
	}

	p, err := d.model()
	if err != nil {
		return nil, apperror.DB{Err: err}
	}
	return p, nil
}

func (r *MongoRepo) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	return r.findPayment(ctx, bson.D{{Key: "_id", Value: id}}, "payment", id)
}

func (r *MongoRepo) FindSalaryPayment(ctx context.Context, employeeID, period string) (*model.Payment, error) {
	filter := bson.D{
		{Key: "employee_id", Value: employeeID},
		{Key: "period", Value: period},
		{Key: "type", Value: model.PaymentSalary},
	}
	return r.findPayment(ctx, filter, "salary payment", employeeID+"/"+period)
}

func (r *MongoRepo) ListPayments(ctx context.Context, f model.PaymentFilter) ([]model.Payment, error) {
	filter := bson.D{}
	filter = appendEq(filter, "employee_id", f.EmployeeID)
	filter = appendEq(filter, "type", f.Type)
	filter = appendEq(filter, "method", f.Method)
	filter = appendEq(filter, "period", f.Period)
	filter = appendRange(filter, "date", f.From, f.To)

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})

	var docs []paymentDoc
	if err := r.findAll(ctx, collPayments, filter, opts, &docs); err != nil {
		return nil, err
	}

	out := make([]model.Payment, 0, len(docs))
	for i := range docs {
		p, err := docs[i].model()
		if err != nil {
			return nil, apperror.DB{Err: err}
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *MongoRepo) UpdatePayment(ctx context.Context, p *model.Payment) error {
	amount, err := toDecimal128(p.Amount)
	if err != nil {
		return apperror.DB{Err: err}
	}

	set := bson.D{
		{Key: "amount", Value: amount}, {Key: "date", Value: p.Date}, {Key: "type", Value: p.Type},
		{Key: "method", Value: p.Method}, {Key: "period", Value: p.Period}, {Key: "reference", Value: p.Reference},
		{Key: "notes", Value: p.Notes}, {Key: "updated_at", Value: p.UpdatedAt},
	}

	res, err := r.db.Collection(collPayments).UpdateOne(ctx, bson.D{{Key: "_id", Value: p.ID}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return mongoWriteErr(err, "salary payment", p.EmployeeID+"/"+p.Period)
	}
	return matched(res.MatchedCount, "payment", p.ID)
}

func (r *MongoRepo) DeletePayment(ctx context.Context, id string) error {
	return r.deleteOne(ctx, collPayments, "payment", id)
}

func (r *MongoRepo) DeletePaymentsByEmployee(ctx context.Context, employeeID string) (int64, error) {
	return r.deleteMany(ctx, collPayments, employeeID)
}

// ---- helpers ----

func (r *MongoRepo) findAll(ctx context.Context, coll string, filter bson.D, opts *options.FindOptions, out any) error {
	cur, err := r.db.Collection(coll).Find(ctx, filter, opts)
	if err != nil {
		return apperror.DB{Err: err}
	}
	defer cur.Close(ctx)

	if err := cur.All(ctx, out); err != nil {
		return apperror.DB{Err: err}
	}
	return nil
}

func (r *MongoRepo) deleteOne(ctx context.Context, coll, entity, id string) error {
	res, err := r.db.Collection(coll).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return apperror.DB{Err: err}
	}
	return matched(res.DeletedCount, entity, id)
}

func (r *MongoRepo) deleteMany(ctx context.Context, coll, employeeID string) (int64, error) {
	res, err := r.db.Collection(coll).DeleteMany(ctx, bson.D{{Key: "employee_id", Value: employeeID}})
	if err != nil {
		return 0, apperror.DB{Err: err}
	}
	return res.DeletedCount, nil
}

func appendEq(filter bson.D, key, value string) bson.D {
	if value == "" {
		return filter
	}
	return append(filter, bson.E{Key: key, Value: value})
}

// appendRange adds an inclusive bound on an ISO date string field.
func appendRange(filter bson.D, key, from, to string) bson.D {
	cond := bson.D{}
	if from != "" {
		cond = append(cond, bson.E{Key: "$gte", Value: from})
	}
	if to != "" {
		cond = append(cond, bson.E{Key: "$lte", Value: to})
	}
	if len(cond) == 0 {
		return filter
	}
	return append(filter, bson.E{Key: key, Value: cond})
}

func mongoNotFoundOr(err error, entity, id string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.EntityNotFound{Entity: entity, ID: id}
	}
	return apperror.DB{Err: err}
}

func mongoWriteErr(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return apperror.EntityAlreadyExists{Entity: entity, ID: id}
	}
	return apperror.DB{Err: err}
}

func matched(n int64, entity, id string) error {
	if n == 0 {
		return apperror.EntityNotFound{Entity: entity, ID: id}
	}
	return nil
}
