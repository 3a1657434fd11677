package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/twofa/internal/model"
	"github.com/xxxsen/twofa/internal/pkg/dbutil"
	appErr "github.com/xxxsen/twofa/internal/pkg/errors"
)

const otpCodesTable = "otp_codes"

var otpCodeColumns = []string{"id", "email", "purpose", "code_hash", "used", "ctime", "expires_at"}

type OTPCodeRepo struct {
	db *sql.DB
}

func NewOTPCodeRepo(db *sql.DB) *OTPCodeRepo {
	return &OTPCodeRepo{db: db}
}

func (r *OTPCodeRepo) Create(ctx context.Context, code *model.OTPCode) error {
	data := map[string]interface{}{
		"id":         code.ID,
		"email":      code.Email,
		"purpose":    code.Purpose,
		"code_hash":  code.CodeHash,
		"used":       code.Used,
		"ctime":      code.Ctime,
		"expires_at": code.ExpiresAt,
	}
	sqlStr, args, err := builder.BuildInsert(otpCodesTable, []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrInvalid
		}
		return err
	}
	return nil
}

func (r *OTPCodeRepo) LatestByEmail(ctx context.Context, email, purpose string) (*model.OTPCode, error) {
	where := map[string]interface{}{"email": email, "purpose": purpose, "_orderby": "ctime desc", "_limit": []uint{0, 1}}
	sqlStr, args, err := builder.BuildSelect(otpCodesTable, where, otpCodeColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, appErr.ErrNotFound
	}
	var code model.OTPCode
	if err := rows.Scan(&code.ID, &code.Email, &code.Purpose, &code.CodeHash, &code.Used, &code.Ctime, &code.ExpiresAt); err != nil {
		return nil, err
	}
	return &code, nil
}

// MarkUsed flips used only while the code is still unused, so two
// concurrent verifications cannot both consume it.
func (r *OTPCodeRepo) MarkUsed(ctx context.Context, id string) error {
	where := map[string]interface{}{"id": id, "used": 0}
	update := map[string]interface{}{"used": 1}
	sqlStr, args, err := builder.BuildUpdate(otpCodesTable, where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *OTPCodeRepo) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	where := map[string]interface{}{"expires_at <": cutoff}
	sqlStr, args, err := builder.BuildDelete(otpCodesTable, where)
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
