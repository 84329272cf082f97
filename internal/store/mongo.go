package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Shayan56/StudentSync/internal/shared"
)

const queryTimeout = 10 * time.Second

// NewMongoStores builds the MongoDB-backed store set.
func NewMongoStores(db *mongo.Database) *Stores {
	return &Stores{
		Students:   &mongoStudents{col: db.Collection(shared.CollectionStudents)},
		Marks:      &mongoMarks{col: db.Collection(shared.CollectionMarks)},
		Attendance: &mongoAttendance{col: db.Collection(shared.CollectionAttendance)},
	}
}

// EnsureIndexes creates the indexes the store relies on: the unique natural
// key on roll_number and the student/semester lookup indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	idxCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := db.Collection(shared.CollectionStudents).Indexes().CreateOne(idxCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "roll_number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return shared.WrapStoreError("create students index", err)
	}

	_, err = db.Collection(shared.CollectionMarks).Indexes().CreateOne(idxCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "student_id", Value: 1}, {Key: "semester", Value: 1}},
	})
	if err != nil {
		return shared.WrapStoreError("create marks index", err)
	}

	_, err = db.Collection(shared.CollectionAttendance).Indexes().CreateOne(idxCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "student_id", Value: 1}, {Key: "semester", Value: 1}},
	})
	if err != nil {
		return shared.WrapStoreError("create attendance index", err)
	}

	return nil
}

// ============================================================================
// Student Store
// ============================================================================

type mongoStudents struct {
	col *mongo.Collection
}

func (s *mongoStudents) Find(ctx context.Context, filter StudentFilter) ([]shared.Student, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := bson.M{}
	if filter.RollNumber != "" {
		query["roll_number"] = filter.RollNumber
	}
	if filter.Name != "" {
		query["name"] = bson.M{"$regex": filter.Name, "$options": "i"}
	}
	if filter.Batch != "" {
		query["batch"] = filter.Batch
	}
	if filter.Semester != "" {
		query["semester"] = filter.Semester
	}

	findOptions := shared.BuildFindOptions(0, bson.D{{Key: "roll_number", Value: 1}})

	cursor, err := s.col.Find(queryCtx, query, findOptions)
	if err != nil {
		return nil, shared.WrapStoreError("find students", err)
	}
	defer cursor.Close(queryCtx)

	students := []shared.Student{}
	if err := cursor.All(queryCtx, &students); err != nil {
		return nil, shared.WrapStoreError("decode students", err)
	}

	return students, nil
}

func (s *mongoStudents) GetByID(ctx context.Context, id string) (*shared.Student, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var student shared.Student
	err := s.col.FindOne(queryCtx, bson.M{"_id": id}).Decode(&student)
	if err == mongo.ErrNoDocuments {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, shared.WrapStoreError("get student", err)
	}

	return &student, nil
}

func (s *mongoStudents) GetByRollNumber(ctx context.Context, rollNumber string) (*shared.Student, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var student shared.Student
	err := s.col.FindOne(queryCtx, bson.M{"roll_number": rollNumber}).Decode(&student)
	if err == mongo.ErrNoDocuments {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, shared.WrapStoreError("get student by roll number", err)
	}

	return &student, nil
}

func (s *mongoStudents) Insert(ctx context.Context, student *shared.Student) error {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := s.col.InsertOne(queryCtx, student); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &shared.DuplicateKeyError{Keys: []string{student.RollNumber}}
		}
		return shared.WrapStoreError("insert student", err)
	}

	return nil
}

func (s *mongoStudents) Update(ctx context.Context, student *shared.Student) error {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.col.ReplaceOne(queryCtx, bson.M{"_id": student.ID}, student)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &shared.DuplicateKeyError{Keys: []string{student.RollNumber}}
		}
		return shared.WrapStoreError("update student", err)
	}
	if result.MatchedCount == 0 {
		return shared.ErrNotFound
	}

	return nil
}

func (s *mongoStudents) UpsertByRollNumber(ctx context.Context, student *shared.Student) error {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":       student.Name,
			"batch":      student.Batch,
			"semester":   student.Semester,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":         shared.NewDocumentID(),
			"roll_number": student.RollNumber,
			"created_at":  now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := s.col.UpdateOne(queryCtx, bson.M{"roll_number": student.RollNumber}, update, opts); err != nil {
		return shared.WrapStoreError("upsert student", err)
	}

	return nil
}

func (s *mongoStudents) DeleteByID(ctx context.Context, id string) error {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.col.DeleteOne(queryCtx, bson.M{"_id": id})
	if err != nil {
		return shared.WrapStoreError("delete student", err)
	}
	if result.DeletedCount == 0 {
		return shared.ErrNotFound
	}

	return nil
}

// ============================================================================
// Mark Store
// ============================================================================

type mongoMarks struct {
	col *mongo.Collection
}

func (s *mongoMarks) Find(ctx context.Context, filter MarkFilter) ([]shared.Mark, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := bson.M{}
	if filter.StudentID != "" {
		query["student_id"] = filter.StudentID
	}
	if filter.Semester != "" {
		query["semester"] = filter.Semester
	}
	if filter.Subject != "" {
		query["subject"] = filter.Subject
	}

	findOptions := shared.BuildFindOptions(0, bson.D{{Key: "semester", Value: 1}, {Key: "subject", Value: 1}})

	cursor, err := s.col.Find(queryCtx, query, findOptions)
	if err != nil {
		return nil, shared.WrapStoreError("find marks", err)
	}
	defer cursor.Close(queryCtx)

	marks := []shared.Mark{}
	if err := cursor.All(queryCtx, &marks); err != nil {
		return nil, shared.WrapStoreError("decode marks", err)
	}

	return marks, nil
}

func (s *mongoMarks) Insert(ctx context.Context, mark *shared.Mark) error {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := s.col.InsertOne(queryCtx, mark); err != nil {
		return shared.WrapStoreError("insert mark", err)
	}

	return nil
}

func (s *mongoMarks) UpsertByKey(ctx context.Context, mark *shared.Mark) error {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now()
	key := bson.M{
		"student_id": mark.StudentID,
		"subject":    mark.Subject,
		"semester":   mark.Semester,
	}
	update := bson.M{
		"$set": bson.M{
			"score":      mark.Score,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        shared.NewDocumentID(),
			"student_id": mark.StudentID,
			"subject":    mark.Subject,
			"semester":   mark.Semester,
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := s.col.UpdateOne(queryCtx, key, update, opts); err != nil {
		return shared.WrapStoreError("upsert mark", err)
	}

	return nil
}

func (s *mongoMarks) DeleteByStudent(ctx context.Context, studentID string) (int64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.col.DeleteMany(queryCtx, bson.M{"student_id": studentID})
	if err != nil {
		return 0, shared.WrapStoreError("delete marks", err)
	}

	return result.DeletedCount, nil
}

// ============================================================================
// Attendance Store
// ============================================================================

type mongoAttendance struct {
	col *mongo.Collection
}

func (s *mongoAttendance) Find(ctx context.Context, filter AttendanceFilter) ([]shared.AttendanceRecord, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := bson.M{}
	if filter.StudentID != "" {
		query["student_id"] = filter.StudentID
	}
	if filter.Semester != "" {
		query["semester"] = filter.Semester
	}
	if filter.Subject != "" {
		query["subject"] = filter.Subject
	}

	findOptions := shared.BuildFindOptions(0, bson.D{{Key: "date", Value: 1}})

	cursor, err := s.col.Find(queryCtx, query, findOptions)
	if err != nil {
		return nil, shared.WrapStoreError("find attendance", err)
	}
	defer cursor.Close(queryCtx)

	records := []shared.AttendanceRecord{}
	if err := cursor.All(queryCtx, &records); err != nil {
		return nil, shared.WrapStoreError("decode attendance", err)
	}

	return records, nil
}

func (s *mongoAttendance) Insert(ctx context.Context, record *shared.AttendanceRecord) error {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := s.col.InsertOne(queryCtx, record); err != nil {
		return shared.WrapStoreError("insert attendance", err)
	}

	return nil
}

func (s *mongoAttendance) DeleteByStudent(ctx context.Context, studentID string) (int64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.col.DeleteMany(queryCtx, bson.M{"student_id": studentID})
	if err != nil {
		return 0, shared.WrapStoreError("delete attendance", err)
	}

	return result.DeletedCount, nil
}
