package sqlinline

const QInsertUser = `--sql a39a1edb-f744-4fe0-9c38-3f41a06475e0
insert into users(id, email, credential_hash, credits_remaining, plan, created_at, updated_at)
values (gen_random_uuid(), lower($1::text), $2::text, $3::int, $4::text, now(), now())
returning id, created_at;
`

const QSelectUserByID = `--sql 67587225-20c3-426b-ad27-0e6afcac3899
select id, email, credential_hash, credits_remaining, plan, created_at
from users
where id = $1::uuid
limit 1;
`

const QSelectUserByEmail = `--sql bfa31dee-f3f4-4f63-879f-222145b635f1
select id, email, credential_hash, credits_remaining, plan, created_at
from users
where email = lower($1::text)
limit 1;
`

// Debit is guarded so the balance never goes negative; zero rows back means
// the user was missing or underfunded and the caller decides which.
const QDebitUserCredits = `--sql e80fdaff-ecae-44d1-80a6-227feea7adee
update users
set credits_remaining = credits_remaining - $2::int,
    updated_at = now()
where id = $1::uuid
  and credits_remaining >= $2::int
returning credits_remaining;
`

const QAddUserCredits = `--sql 24aa84d7-24a8-4641-b5c0-43a036c9dd6f
update users
set credits_remaining = credits_remaining + $2::int,
    updated_at = now()
where id = $1::uuid
returning credits_remaining;
`
